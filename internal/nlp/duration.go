// README: Event duration inference from explicit phrases, with a 1h default.
package nlp

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultEventDuration applies when the text names neither an end time nor a
// duration phrase.
const DefaultEventDuration = time.Hour

// Duration phrase patterns, checked in declared order; the first match wins.
// The inverse word orders capture only the numeric segment so the event noun
// ("meeting", "call") survives title cleanup.
var (
	forMinutesPattern = regexp.MustCompile(`(?i)\bfor\s+(\d+)\s*(?:minutes|mins|min|m)\b`)
	forHoursPattern   = regexp.MustCompile(`(?i)\bfor\s+(\d+(?:\.\d+)?)\s*(?:hours|hrs|hr|h)\b`)
	hoursEventPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?\s*(?:hours?|hrs?))\s+(?:meeting|call|appointment|event)\b`)
	minsEventPattern  = regexp.MustCompile(`(?i)\b(\d+\s*(?:minutes?|mins?))\s+(?:meeting|call|appointment|event)\b`)

	leadingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// InferEnd resolves the event end time per the priority order: explicit end
// instant from the recognized span, explicit duration phrase, default.
// The returned phrase is the matched duration text (empty when none) for the
// title cleanup step.
func InferEnd(text string, span Span) (end time.Time, phrase string) {
	if span.End != nil {
		return *span.End, ""
	}
	if d, p, ok := parseDurationPhrase(text); ok {
		return span.Start.Add(d), p
	}
	return span.Start.Add(DefaultEventDuration), ""
}

func parseDurationPhrase(text string) (time.Duration, string, bool) {
	if m := forMinutesPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return time.Duration(n) * time.Minute, m[0], true
		}
	}
	if m := forHoursPattern.FindStringSubmatch(text); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return time.Duration(f * float64(time.Hour)), m[0], true
		}
	}
	if m := hoursEventPattern.FindStringSubmatch(text); m != nil {
		num := leadingNumber.FindString(m[1])
		f, err := strconv.ParseFloat(num, 64)
		if err == nil {
			return time.Duration(f * float64(time.Hour)), m[1], true
		}
	}
	if m := minsEventPattern.FindStringSubmatch(text); m != nil {
		num := leadingNumber.FindString(m[1])
		n, err := strconv.Atoi(num)
		if err == nil {
			return time.Duration(n) * time.Minute, m[1], true
		}
	}
	return 0, "", false
}
