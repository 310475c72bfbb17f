package utils

import "testing"

func TestSanitizeJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain object",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "leading prose",
			in:   `Here is the result you asked for: {"a": 1} Hope it helps!`,
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n{\"a\": 1}\n  ",
			want: `{"a": 1}`,
		},
	}

	for _, c := range cases {
		if got := SanitizeJSON(c.in); got != c.want {
			t.Errorf("%s: SanitizeJSON(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}

func TestSanitizeJSONNoObject(t *testing.T) {
	// Content without any object is returned trimmed, the caller's
	// Unmarshal then reports the failure.
	if got := SanitizeJSON("  no json here  "); got != "no json here" {
		t.Errorf("Expected trimmed passthrough, got %q", got)
	}
}
