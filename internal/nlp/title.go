// README: Event title cleanup: strips date/duration text and filler words.
package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	fillerWords = regexp.MustCompile(`(?i)\b(at|on|for|in|from|to|tomorrow|today|next|this|last)\b`)
	manySpaces  = regexp.MustCompile(`\s+`)
)

// ExtractTitle derives a human-readable event title from the original text.
// Removal order matters: the date span first (it is the longest match), then
// the duration phrase, then standalone filler words, so overlapping removals
// do not corrupt the remainder. The result may be empty; callers substitute
// their own placeholder label.
func ExtractTitle(text, dateText, durationText string) string {
	title := text
	if dateText != "" {
		title = removeFold(title, dateText)
	}
	if durationText != "" {
		title = removeFold(title, durationText)
	}
	title = fillerWords.ReplaceAllString(title, " ")
	title = manySpaces.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	return capitalize(title)
}

// removeFold deletes every case-insensitive occurrence of sub from s.
func removeFold(s, sub string) string {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(sub))
	if err != nil {
		return s
	}
	return re.ReplaceAllString(s, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
