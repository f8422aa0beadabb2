// README: Intent classifier tests (keyword properties, precedence, purity).
package nlp

import "testing"

func TestIsCalendarIntent_Keywords(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Meeting with John tomorrow at 4pm", true},
		{"schedule a dentist appointment", true},
		{"lunch with Sarah on Friday", true},
		{"add to calendar: project kickoff", true},
		{"what's the capital of France", false},
		{"tell me a joke", false},
		// weekday name alone is enough
		{"see you on wednesday", true},
		{"tomorrow is fine", true},
		{"NEXT WEEK works for me", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsCalendarIntent(tt.text); got != tt.want {
				t.Errorf("IsCalendarIntent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Every weekday name, with no other calendar keyword present, must classify
// as calendar intent.
func TestIsCalendarIntent_WeekdayProperty(t *testing.T) {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday", "tomorrow"}
	for _, day := range days {
		if !IsCalendarIntent("see you " + day) {
			t.Errorf("expected calendar intent for %q", day)
		}
	}
}

func TestIsLocationIntent_Keywords(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"find coffee shops near me", true},
		{"restaurants in Paris", true},
		{"where can i get cash", true},
		{"nearest gas station", true},
		{"show me hotels", true},
		{"directions to the office", true},
		{"what's the capital of France", false},
		{"summarize this article", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsLocationIntent(tt.text); got != tt.want {
				t.Errorf("IsLocationIntent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"location only", "find coffee shops near me", IntentLocation},
		{"calendar only", "meeting with John tomorrow at 4pm", IntentCalendar},
		{"chat default", "what's the capital of France", IntentChat},
		// matches both keyword sets; location wins by declared priority
		{"both keyword sets", "coffee meeting tomorrow near me", IntentLocation},
		{"empty", "", IntentChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Classifiers are pure: repeated calls on the same text agree.
func TestClassify_Idempotent(t *testing.T) {
	inputs := []string{
		"find coffee shops near me",
		"meeting with John tomorrow at 4pm",
		"what's the capital of France",
	}
	for _, text := range inputs {
		first := Classify(text)
		for i := 0; i < 3; i++ {
			if got := Classify(text); got != first {
				t.Fatalf("Classify(%q) not idempotent: %v then %v", text, first, got)
			}
		}
	}
}
