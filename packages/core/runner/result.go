package runner

import (
	"time"

	"github.com/abdul-hamid-achik/extapi/packages/http"
)

// Result is the outcome of one executed call. It is created once and its
// body can be consumed once.
type Result struct {
	StatusCode int
	Status     string
	// FinalURL is the URL that was requested, query included.
	FinalURL string
	// ResponseURL is where the response came from after redirects.
	ResponseURL string
	Headers     map[string]string
	Body        *http.Body
	// XML is set when the response was XML and parsed cleanly. XMLErr holds
	// the parse failure otherwise.
	XML      *XMLNode
	XMLErr   error
	Duration time.Duration

	Request  *http.Request
	Response *http.Response
}

// IsXML reports whether the body was parsed as an XML document.
func (r *Result) IsXML() bool {
	return r.XML != nil
}

// Close releases the body. Safe to call more than once.
func (r *Result) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
