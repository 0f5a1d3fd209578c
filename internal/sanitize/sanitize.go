// -----------------------------------------------------------------------
// Sanitization - redacts credentials and session material from extracted
// records before they leave the pipeline
// -----------------------------------------------------------------------

package sanitize

import (
	"net/url"
	"strings"
)

// Marker replaces a sensitive header value in full. Query parameter values
// carry its percent-encoded form so sanitized URLs stay valid.
const Marker = "[REDACTED]"

// defaultSensitiveHeaders are matched case-insensitively against the full
// header name.
var defaultSensitiveHeaders = []string{
	"authorization",
	"cookie",
	"set-cookie",
	"x-csrf-token",
	"x-api-key",
	"proxy-authorization",
}

// defaultSensitiveParams are matched as case-insensitive substrings of the
// query parameter key.
var defaultSensitiveParams = []string{
	"key",
	"token",
	"secret",
	"password",
	"session",
}

// Sanitizer redacts sensitive header values and query parameters. The zero
// set of extras gives the built-in vocabulary; config may extend both sets.
// Sanitization is idempotent: applying it twice yields the same output.
type Sanitizer struct {
	headers map[string]struct{}
	params  []string
}

// New creates a Sanitizer with the default vocabularies plus any extras.
func New(extraHeaders, extraParams []string) *Sanitizer {
	s := &Sanitizer{
		headers: make(map[string]struct{}),
		params:  make([]string, 0, len(defaultSensitiveParams)+len(extraParams)),
	}
	for _, name := range defaultSensitiveHeaders {
		s.headers[name] = struct{}{}
	}
	for _, name := range extraHeaders {
		if name != "" {
			s.headers[strings.ToLower(name)] = struct{}{}
		}
	}
	s.params = append(s.params, defaultSensitiveParams...)
	for _, frag := range extraParams {
		if frag != "" {
			s.params = append(s.params, strings.ToLower(frag))
		}
	}
	return s
}

// Default is the sanitizer with the built-in vocabularies only.
var Default = New(nil, nil)

// HeaderValue returns the redaction marker when name is in the sensitive
// set (case-insensitive), otherwise the value unchanged. Matched values are
// replaced in full, never partially.
func (s *Sanitizer) HeaderValue(name, value string) string {
	if _, ok := s.headers[strings.ToLower(name)]; ok {
		return Marker
	}
	return value
}

// URL redacts the values of sensitive query parameters while preserving
// parameter order and all non-sensitive values byte-for-byte. A URL with no
// scheme or no query string is returned unchanged; malformed input is not
// an error.
func (s *Sanitizer) URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.RawQuery == "" {
		return raw
	}

	// url.Values is a map and loses ordering on encode, so the query is
	// rewritten pair by pair.
	pairs := strings.Split(u.RawQuery, "&")
	changed := false
	for i, pair := range pairs {
		key, _, hasValue := strings.Cut(pair, "=")
		if !hasValue || !s.sensitiveParam(key) {
			continue
		}
		redacted := key + "=" + url.QueryEscape(Marker)
		if pairs[i] != redacted {
			pairs[i] = redacted
			changed = true
		}
	}
	if !changed {
		return raw
	}

	u.RawQuery = strings.Join(pairs, "&")
	return u.String()
}

func (s *Sanitizer) sensitiveParam(key string) bool {
	lower := strings.ToLower(key)
	for _, frag := range s.params {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// HeaderValue applies the default sanitizer.
func HeaderValue(name, value string) string {
	return Default.HeaderValue(name, value)
}

// URL applies the default sanitizer.
func URL(raw string) string {
	return Default.URL(raw)
}
