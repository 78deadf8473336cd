package curl

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/extapi/packages/call"
)

func TestParse_SimpleGet(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "GET" {
		t.Errorf("expected method GET, got %s", parsed.Method)
	}
	if parsed.URL != "https://api.example.com/users" {
		t.Errorf("expected URL https://api.example.com/users, got %s", parsed.URL)
	}
	if parsed.Name != "get_users" {
		t.Errorf("expected name get_users, got %s", parsed.Name)
	}
}

func TestParse_PostWithData(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -X POST https://api.example.com/users -d 'name=John' -d 'age=30'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Method != "POST" {
		t.Errorf("expected method POST, got %s", parsed.Method)
	}
	if !reflect.DeepEqual(parsed.Data, []string{"name=John", "age=30"}) {
		t.Errorf("unexpected data %v", parsed.Data)
	}
}

func TestParse_WithHeaders(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -H "Accept: application/xml" -H "Authorization: Bearer token123" https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Headers["Accept"] != "application/xml" {
		t.Errorf("expected Accept: application/xml, got %s", parsed.Headers["Accept"])
	}
	if parsed.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("expected Authorization: Bearer token123, got %s", parsed.Headers["Authorization"])
	}
}

func TestParse_ImplicitPost(t *testing.T) {
	converter := NewConverter()

	// Without -X, -d should imply POST
	parsed, err := converter.Parse(`curl -d "name=John" https://api.example.com/users`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Method != "POST" {
		t.Errorf("expected implicit POST method, got %s", parsed.Method)
	}

	// -G keeps GET and sends the data as query
	parsed, err = converter.Parse(`curl -G -d "q=go" https://api.example.com/search`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Method != "GET" {
		t.Errorf("expected GET with -G, got %s", parsed.Method)
	}
}

func TestParse_Flags(t *testing.T) {
	converter := NewConverter()

	parsed, err := converter.Parse(`curl -k -L --compressed https://api.example.com`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !parsed.Insecure {
		t.Error("expected Insecure to be true")
	}
	if !parsed.FollowRedirects {
		t.Error("expected FollowRedirects to be true")
	}
	if parsed.URL != "https://api.example.com" {
		t.Errorf("unexpected URL %s", parsed.URL)
	}
}

func TestParse_Errors(t *testing.T) {
	converter := NewConverter()

	for _, cmd := range []string{`curl`, `curl -X`, `curl -H "Accept: */*"`} {
		if _, err := converter.Parse(cmd); err == nil {
			t.Errorf("Parse(%q): expected error", cmd)
		}
	}
}

func TestConvertCommand_QueryAndForm(t *testing.T) {
	converter := NewConverter()

	conv, err := converter.ConvertCommand(`curl 'https://api.example.com/1/statuses/update.json?include_entities=true' --data-urlencode 'status=Hello Ladies + Gentlemen' -d 'a=1%262&b='`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := conv.Settings
	if s.LastApiUrl != "https://api.example.com/1/statuses/update.json" {
		t.Errorf("unexpected URL %s", s.LastApiUrl)
	}
	if s.RequestMethod != call.Post {
		t.Errorf("expected Post, got %s", s.RequestMethod)
	}

	expected := call.Parameters{
		{Name: "include_entities", Value: "true"},
		{Name: "a", Value: "1&2"},
		{Name: "b", Value: ""},
		{Name: "status", Value: "Hello Ladies + Gentlemen"},
	}
	if !reflect.DeepEqual(s.Parameters, expected) {
		t.Errorf("parameters:\n got %v\nwant %v", s.Parameters, expected)
	}
}

func TestConvertCommand_BasicAuth(t *testing.T) {
	conv, err := NewConverter().ConvertCommand(`curl -u admin:secret https://api.example.com/admin`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Settings.WebAuthUsername != "admin" {
		t.Errorf("expected username admin, got %s", conv.Settings.WebAuthUsername)
	}
	if conv.Password != "" {
		t.Error("password kept without WithPassword")
	}
	if len(conv.Warnings) != 1 || !strings.Contains(conv.Warnings[0], "password is not saved") {
		t.Errorf("unexpected warnings %v", conv.Warnings)
	}

	conv, err = NewConverter(WithPassword(true)).ConvertCommand(`curl -u admin:secret https://api.example.com/admin`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Password != "secret" {
		t.Errorf("expected password secret, got %q", conv.Password)
	}
}

func TestConvertCommand_Headers(t *testing.T) {
	conv, err := NewConverter().ConvertCommand(`curl -H "Content-Type: application/x-www-form-urlencoded" -H "Accept: application/json" -d a=1 https://api.example.com/x`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := conv.Headers["Content-Type"]; ok {
		t.Error("form Content-Type should be implied, not reported")
	}
	if conv.Headers["Accept"] != "application/json" {
		t.Errorf("expected Accept header to be reported, got %v", conv.Headers)
	}
	if len(conv.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", conv.Warnings)
	}
}

func TestConvertCommand_Rejects(t *testing.T) {
	tests := []struct {
		cmd string
		err error
	}{
		{`curl -X PUT https://api.example.com/users`, call.ErrNoMethod},
		{`curl -d '{"name":"John"}' https://api.example.com/users`, call.ErrInvalidParameter},
		{`curl -d 'a=1&a=2' https://api.example.com/users`, call.ErrInvalidParameter},
		{`curl -G -d 'q=go' https://api.example.com/search`, nil},
		{`curl -d '=1' https://api.example.com/users`, call.ErrInvalidParameter},
	}

	for _, tt := range tests {
		_, err := NewConverter().ConvertCommand(tt.cmd)
		if tt.err == nil {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.cmd, err)
			}
			continue
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: expected %v, got %v", tt.cmd, tt.err, err)
		}
	}
}

func TestReadCommand(t *testing.T) {
	input := `# copied from the docs
curl -X POST \
  -d 'a=1' \
  https://api.example.com/x

curl https://ignored.example.com
`
	cmd, err := ReadCommand(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tokens := tokenize(cmd)
	expected := []string{"curl", "-X", "POST", "-d", "a=1", "https://api.example.com/x"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("got %q, want %q", tokens, expected)
	}

	if _, err := ReadCommand(strings.NewReader("# nothing\n\n")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			input:    `-X POST -d "hello world"`,
			expected: []string{"-X", "POST", "-d", "hello world"},
		},
		{
			input:    `-H 'Content-Type: application/json'`,
			expected: []string{"-H", "Content-Type: application/json"},
		},
		{
			input:    `-d '{"key": "value"}'`,
			expected: []string{"-d", `{"key": "value"}`},
		},
		{
			input:    `-d 'a\b' -d "c\"d"`,
			expected: []string{"-d", `a\b`, "-d", `c"d`},
		},
	}

	for _, tt := range tests {
		tokens := tokenize(tt.input)
		if !reflect.DeepEqual(tokens, tt.expected) {
			t.Errorf("tokenize(%q): got %q, expected %q", tt.input, tokens, tt.expected)
		}
	}
}

func TestGenerateName(t *testing.T) {
	tests := []struct {
		url    string
		method string
		expect string
	}{
		{"https://api.example.com/users", "GET", "get_users"},
		{"https://api.example.com/users/123", "GET", "get_users_123"},
		{"https://api.example.com/", "POST", "post_root"},
		{"https://api.example.com/api/v1/users?x=1", "POST", "post_api_v1_users"},
	}

	for _, tt := range tests {
		result := generateName(tt.url, tt.method)
		if result != tt.expect {
			t.Errorf("generateName(%q, %q): got %q, expected %q", tt.url, tt.method, result, tt.expect)
		}
	}
}
