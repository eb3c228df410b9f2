package agent

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // "" means nil expected
	}{
		{
			name: "plain object",
			in:   `{"intent":"ONTOPIC","thought":"ok"}`,
			want: `{"intent":"ONTOPIC","thought":"ok"}`,
		},
		{
			name: "fenced json block",
			in:   "```json\n{\"intent\":\"ONTOPIC\"}\n```",
			want: `{"intent":"ONTOPIC"}`,
		},
		{
			name: "fence without language tag",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "doubled braces",
			in:   `{{"intent":"OFFTOPIC","thought":"weather talk"}}`,
			want: `{"intent":"OFFTOPIC","thought":"weather talk"}`,
		},
		{
			name: "object embedded in prose",
			in:   "Sure! Here is the result:\n{\"place_type\":\"restaurant\"}\nLet me know if that helps.",
			want: `{"place_type":"restaurant"}`,
		},
		{
			name: "nested object in prose span",
			in:   `prefix {"location":{"lat":48.85,"lon":2.35}} suffix`,
			want: `{"location":{"lat":48.85,"lon":2.35}}`,
		},
		{
			name: "truncated output",
			in:   `{"intent":"ONTOPIC","thought":"the user wa`,
			want: "",
		},
		{
			name: "no json at all",
			in:   "I cannot answer that.",
			want: "",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
		{
			name: "whitespace padded",
			in:   "  \n {\"x\": true} \n ",
			want: `{"x": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.in)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected nil, got %s", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tt.want)
			}
			var a, b map[string]any
			if err := json.Unmarshal(got, &a); err != nil {
				t.Fatalf("extracted payload is not an object: %v", err)
			}
			if err := json.Unmarshal([]byte(tt.want), &b); err != nil {
				t.Fatalf("bad want fixture: %v", err)
			}
			ga, _ := json.Marshal(a)
			gb, _ := json.Marshal(b)
			if string(ga) != string(gb) {
				t.Errorf("got %s, want %s", ga, gb)
			}
		})
	}
}

func TestExtractJSONNeverPanics(t *testing.T) {
	inputs := []string{"{{{", "}}", "```json", "{\"a\":}", "null", "[1,2,3]", "true"}
	for _, in := range inputs {
		// Arrays and scalars are not usable payloads either.
		if got := ExtractJSON(in); got != nil {
			if in == "null" || in == "[1,2,3]" || in == "true" {
				t.Errorf("ExtractJSON(%q) = %s, want nil", in, got)
			}
		}
	}
}
