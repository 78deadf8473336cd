package http

import (
	"bytes"
	"strings"
	"time"
)

type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       *Body
	Duration   time.Duration
	// FinalURL is the URL the response came from, after redirects.
	FinalURL string
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

// IsXML reports whether the response is XML, either by Content-Type or, when
// the Content-Type does not claim JSON, by a body starting with '<'. The body
// is peeked, not consumed.
func (r *Response) IsXML() bool {
	if strings.Contains(strings.ToLower(r.ContentType()), "xml") {
		return true
	}
	if r.IsJSON() || strings.Contains(strings.ToLower(r.ContentType()), "html") || r.Body == nil {
		return false
	}
	head, err := r.Body.Peek(512)
	if err != nil {
		return false
	}
	head = bytes.TrimLeft(head, " \t\r\n\ufeff")
	return len(head) > 0 && head[0] == '<'
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
