// README: Natural-language date/time extraction, bound to olebedev/when.
package nlp

import (
	"regexp"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Span is one recognized date/time span within free text.
type Span struct {
	Start time.Time
	// End is the explicit end instant when the text names one
	// ("from 2pm to 4pm"); nil otherwise.
	End *time.Time
	// Text is the exact substring the extractor matched, used by the title
	// cleanup step.
	Text string
}

// DateTimeExtractor finds at most one date/time span in free text. The
// library-defined ranking applies; the first (leftmost) span wins.
type DateTimeExtractor interface {
	Extract(text string, base time.Time) (Span, bool)
}

// rangeConnective joins a start instant to an explicit end instant.
var rangeConnective = regexp.MustCompile(`(?i)^\s*(?:to|until|till|-|–)\s*`)

// WhenExtractor is the production DateTimeExtractor backed by the when parser
// (English plus common rules).
type WhenExtractor struct {
	parser *when.Parser
	loc    *time.Location
}

// NewWhenExtractor builds an extractor anchored to the given location.
// A nil location means system-local.
func NewWhenExtractor(loc *time.Location) *WhenExtractor {
	if loc == nil {
		loc = time.Local
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenExtractor{parser: w, loc: loc}
}

// Extract returns the first recognized span. When the text continues with a
// range connective and a second parseable instant after the start of the
// span, that instant becomes the explicit end; the matched text then covers
// both parses so the whole range is stripped from the title.
func (e *WhenExtractor) Extract(text string, base time.Time) (Span, bool) {
	r, err := e.parser.Parse(text, base.In(e.loc))
	if err != nil || r == nil {
		return Span{}, false
	}

	sp := Span{Start: r.Time, Text: r.Text}

	rest := text[r.Index+len(r.Text):]
	m := rangeConnective.FindString(rest)
	if m == "" {
		return sp, true
	}

	tail := rest[len(m):]
	r2, err := e.parser.Parse(tail, sp.Start)
	if err != nil || r2 == nil || r2.Index != 0 {
		return sp, true
	}
	if !r2.Time.After(sp.Start) {
		return sp, true
	}

	end := r2.Time
	sp.End = &end
	sp.Text = text[r.Index : r.Index+len(r.Text)+len(m)+len(r2.Text)]
	return sp, true
}
