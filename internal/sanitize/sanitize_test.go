package sanitize

import "testing"

func TestHeaderValue(t *testing.T) {
	tests := []struct {
		name        string
		headerName  string
		headerValue string
		want        string
	}{
		{
			name:        "authorization is redacted",
			headerName:  "authorization",
			headerValue: "Bearer token123",
			want:        Marker,
		},
		{
			name:        "mixed case name is redacted",
			headerName:  "Authorization",
			headerValue: "Bearer token123",
			want:        Marker,
		},
		{
			name:        "upper case cookie is redacted",
			headerName:  "COOKIE",
			headerValue: "session=abc123",
			want:        Marker,
		},
		{
			name:        "set-cookie is redacted",
			headerName:  "Set-Cookie",
			headerValue: "sid=xyz; HttpOnly",
			want:        Marker,
		},
		{
			name:        "csrf token is redacted",
			headerName:  "x-csrf-token",
			headerValue: "xyz789",
			want:        Marker,
		},
		{
			name:        "content type passes through",
			headerName:  "content-type",
			headerValue: "application/json",
			want:        "application/json",
		},
		{
			name:        "accept passes through",
			headerName:  "accept",
			headerValue: "*/*",
			want:        "*/*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeaderValue(tt.headerName, tt.headerValue)
			if got != tt.want {
				t.Errorf("HeaderValue(%q, %q) = %q, want %q", tt.headerName, tt.headerValue, got, tt.want)
			}
		})
	}
}

func TestHeaderValueNeverPartial(t *testing.T) {
	got := HeaderValue("Cookie", "session=abc123; user=john")
	if got != Marker {
		t.Fatalf("HeaderValue() = %q, want the bare marker with no residue", got)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "api key value is redacted",
			url:  "https://api.example.com/data?key=secret123&name=test",
			want: "https://api.example.com/data?key=%5BREDACTED%5D&name=test",
		},
		{
			name: "token value is redacted",
			url:  "https://api.example.com/data?token=abc&user=john",
			want: "https://api.example.com/data?token=%5BREDACTED%5D&user=john",
		},
		{
			name: "session and password both redacted",
			url:  "https://api.example.com/login?password=hunter2&session_id=42&page=1",
			want: "https://api.example.com/login?password=%5BREDACTED%5D&session_id=%5BREDACTED%5D&page=1",
		},
		{
			name: "parameter order preserved",
			url:  "https://api.example.com/q?b=2&token=x&a=1",
			want: "https://api.example.com/q?b=2&token=%5BREDACTED%5D&a=1",
		},
		{
			name: "no query returned unchanged",
			url:  "https://api.example.com/data",
			want: "https://api.example.com/data",
		},
		{
			name: "no scheme returned unchanged",
			url:  "invalid-url",
			want: "invalid-url",
		},
		{
			name: "no sensitive params returned unchanged",
			url:  "https://api.example.com/data?user=john&page=2",
			want: "https://api.example.com/data?user=john&page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := URL(tt.url)
			if got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestURLIdempotent(t *testing.T) {
	once := URL("https://api.example.com/data?key=secret123&name=test")
	twice := URL(once)
	if once != twice {
		t.Errorf("URL() is not idempotent: first %q, second %q", once, twice)
	}
}

func TestNewWithExtras(t *testing.T) {
	s := New([]string{"X-Internal-Auth"}, []string{"otp"})

	if got := s.HeaderValue("x-internal-auth", "abc"); got != Marker {
		t.Errorf("extra header not redacted: got %q", got)
	}
	if got := s.URL("https://example.com/verify?otp=123456&flow=pay"); got != "https://example.com/verify?otp=%5BREDACTED%5D&flow=pay" {
		t.Errorf("extra param not redacted: got %q", got)
	}
}
