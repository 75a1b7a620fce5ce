package llm

import (
	"errors"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	}

	tests := []struct {
		name     string
		response string
		wantName string
		wantErr  bool
	}{
		{"bare object", `{"name": "go", "score": 90}`, "go", false},
		{"fenced json", "```json\n{\"name\": \"go\", \"score\": 90}\n```", "go", false},
		{"fenced without language", "```\n{\"name\": \"go\", \"score\": 90}\n```", "go", false},
		{"prose prefix", "Here is the result:\n{\"name\": \"go\", \"score\": 90}", "go", false},
		{"trailing prose", `{"name": "go", "score": 90} Hope this helps!`, "go", false},
		{"no json", "I could not analyze this text.", "", true},
		{"malformed", `{"name": "go", "score":}`, "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeJSON(tt.response, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrBadResponse) {
					t.Errorf("expected ErrBadResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestDecodeJSONArray(t *testing.T) {
	var got []string
	if err := DecodeJSON("```json\n[\"a\", \"b\"]\n```", &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("got %v, want [a b]", got)
	}
}
