// README: Calendar event extraction from free text.
package nlp

import "time"

// ParsedEvent is the result of calendar extraction for one utterance.
// Start and End hold a "now" sentinel when Valid is false; callers must
// check Valid before trusting them.
type ParsedEvent struct {
	Title string
	Start time.Time
	End   time.Time
	Valid bool
	// Err explains why extraction failed; set only when Valid is false.
	Err string
}

// EventParser composes date/time extraction, duration inference and title
// cleanup into a single parse operation. Parsing is pure: the same text with
// the same clock yields the same result.
type EventParser struct {
	extractor DateTimeExtractor
	now       func() time.Time
}

// NewEventParser builds a parser over the given extractor. A nil clock means
// time.Now.
func NewEventParser(extractor DateTimeExtractor, now func() time.Time) *EventParser {
	if now == nil {
		now = time.Now
	}
	return &EventParser{extractor: extractor, now: now}
}

// Parse extracts a calendar event from text.
func (p *EventParser) Parse(text string) ParsedEvent {
	base := p.now()

	span, ok := p.extractor.Extract(text, base)
	if !ok {
		return ParsedEvent{
			Title: text,
			Start: base,
			End:   base,
			Valid: false,
			Err:   "could not parse date/time from message",
		}
	}

	end, durationText := InferEnd(text, span)
	title := ExtractTitle(text, span.Text, durationText)

	return ParsedEvent{
		Title: title,
		Start: span.Start,
		End:   end,
		Valid: true,
	}
}
