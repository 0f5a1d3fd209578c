package models

import "strings"

// Header is a single request header name/value pair. Values are sanitized
// before a record is constructed; sensitive headers carry the redaction
// marker, never a partial value.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HeaderList preserves the insertion order of request headers, which a Go
// map would not. Lookup is case-insensitive per RFC 7230.
type HeaderList []Header

// Get returns the first header value matching name, case-insensitively.
func (h HeaderList) Get(name string) (string, bool) {
	for _, header := range h {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}

// HARRecord is a normalized, sanitized request/response pair extracted from
// a HAR capture entry.
//
// ErrorMessage is nil for successful responses; for client/server errors it
// holds "HTTP {status}: {statusText}", for redirects with a known target
// "Redirect to: {target}".
type HARRecord struct {
	FileID            string     `json:"file_id"`
	Method            string     `json:"method"`
	URL               string     `json:"url"`
	StatusCode        int        `json:"status_code"`
	ResponseTimeMS    float64    `json:"response_time_ms"`
	ResponseSizeBytes int64      `json:"response_size_bytes"`
	RequestHeaders    HeaderList `json:"request_headers"`
	ErrorMessage      *string    `json:"error_message"`
}
