// README: Date/time extractor tests.
package nlp

import (
	"testing"
	"time"
)

func TestWhenExtractor_NoMatch(t *testing.T) {
	e := NewWhenExtractor(time.UTC)
	if _, ok := e.Extract("summarize this article please", testBase); ok {
		t.Error("expected no span for text without date/time")
	}
}

func TestWhenExtractor_MatchedText(t *testing.T) {
	e := NewWhenExtractor(time.UTC)
	sp, ok := e.Extract("Meeting with John tomorrow at 4pm", testBase)
	if !ok {
		t.Fatal("expected a span")
	}
	if sp.Text == "" {
		t.Error("expected non-empty matched text")
	}
	if sp.End != nil {
		t.Error("no explicit end expected")
	}
	if !sp.Start.After(testBase) {
		t.Errorf("start %v should be after base %v", sp.Start, testBase)
	}
}

func TestWhenExtractor_ExplicitRange(t *testing.T) {
	e := NewWhenExtractor(time.UTC)
	sp, ok := e.Extract("Budget review from 2pm to 4pm", testBase)
	if !ok {
		t.Fatal("expected a span")
	}
	if sp.End == nil {
		t.Fatal("expected explicit end for range phrasing")
	}
	if got := sp.End.Sub(sp.Start); got != 2*time.Hour {
		t.Errorf("range = %v, want 2h", got)
	}
	if !sp.End.After(sp.Start) {
		t.Error("end must be after start")
	}
}
