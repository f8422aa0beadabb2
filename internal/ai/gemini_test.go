package ai

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestTrimLeadingNonUser(t *testing.T) {
	tests := []struct {
		name    string
		history []Message
		want    int
		first   string
	}{
		{
			name:    "already user-led",
			history: []Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}},
			want:    2,
			first:   "hi",
		},
		{
			name:    "leading assistant trimmed",
			history: []Message{{Role: "assistant", Content: "welcome"}, {Role: "user", Content: "hi"}},
			want:    1,
			first:   "hi",
		},
		{
			name:    "all non-user",
			history: []Message{{Role: "assistant", Content: "a"}, {Role: "system", Content: "b"}},
			want:    0,
		},
		{
			name:    "empty",
			history: nil,
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimLeadingNonUser(tt.history)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if tt.want > 0 && got[0].Content != tt.first {
				t.Errorf("first = %q, want %q", got[0].Content, tt.first)
			}
		})
	}
}

func TestToGenaiHistory_RoleMapping(t *testing.T) {
	contents := toGenaiHistory([]Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
	})
	if len(contents) != 2 {
		t.Fatalf("len = %d, want 2", len(contents))
	}
	if contents[0].Role != "user" {
		t.Errorf("first role = %q, want user", contents[0].Role)
	}
	if contents[1].Role != "model" {
		t.Errorf("second role = %q, want model", contents[1].Role)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"quota status", &googleapi.Error{Code: 429, Message: "rate limited"}, ErrQuotaExhausted},
		{"overloaded status", &googleapi.Error{Code: 503, Message: "unavailable"}, ErrOverloaded},
		{"bad gateway", &googleapi.Error{Code: 502, Message: "bad gateway"}, ErrOverloaded},
		{"overloaded string", errors.New("the model is overloaded, try again"), ErrOverloaded},
		{"quota string", errors.New("Quota exceeded for requests"), ErrQuotaExhausted},
		{"other", errors.New("connection reset"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(fmt.Errorf("wrap: %w", tt.err))
			if tt.want == nil {
				if errors.Is(got, ErrQuotaExhausted) || errors.Is(got, ErrOverloaded) {
					t.Errorf("unexpected classification: %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
