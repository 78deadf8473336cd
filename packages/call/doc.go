// Package call defines the data model shared by the extapi engine.
//
// It provides:
//   - Parameter and Parameters: the ordered key/value set sent with a call
//   - Method: the request method (Get or Post)
//   - Credentials, BasicAuth and Auth: OAuth 1.0a and Basic credentials
//   - Call: the fully populated input of a single execution
//   - Settings: the persisted .api file format
//   - Sentinel errors describing why a call cannot be built or executed
package call
