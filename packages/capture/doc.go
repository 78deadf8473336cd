// Package capture extracts values from JSON response bodies.
//
// Paths use gjson syntax ("user.name", "items.#", "items.0.id"); bracket
// indexes such as "items[0].id" and a leading "body." or "$." are accepted
// too.
package capture
