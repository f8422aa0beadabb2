// README: Keyword-based intent triage for user utterances.
package nlp

import "strings"

// Intent is the coarse category assigned to one utterance.
type Intent int

const (
	IntentChat Intent = iota
	IntentLocation
	IntentCalendar
)

func (i Intent) String() string {
	switch i {
	case IntentLocation:
		return "location"
	case IntentCalendar:
		return "calendar"
	default:
		return "chat"
	}
}

// Classification precedence: location before calendar, chat as the default.
// A message matching both keyword sets ("coffee meeting tomorrow near me") is
// routed to location search. Location queries are read-only, so misrouting a
// calendar request there is lower-harm than the reverse. Deliberate; do not
// reorder without revisiting the router.
var intentPriority = []Intent{IntentLocation, IntentCalendar, IntentChat}

// calendarKeywords covers event nouns plus relative/absolute day references.
// Pure substring OR; false positives are resolved downstream by the event
// parser's validity flag.
var calendarKeywords = []string{
	"meeting",
	"appointment",
	"schedule",
	"event",
	"reminder",
	"call",
	"lunch",
	"dinner",
	"coffee",
	"sync",
	"standup",
	"review",
	"interview",
	"add to calendar",
	"calendar",
	"tomorrow",
	"next week",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// locationKeywords covers search verbs and place-category nouns.
var locationKeywords = []string{
	"find",
	"search",
	"near me",
	"nearby",
	"closest",
	"nearest",
	"around",
	"in the area",
	"where can i",
	"locate",
	"directions",
	"map",
	"places",
	"show me",
	"looking for",
	"restaurant",
	"restaurants",
	"cafe",
	"cafes",
	"coffee shop",
	"coffee shops",
	"grocery",
	"store",
	"stores",
	"shop",
	"shops",
	"mall",
	"malls",
	"hospital",
	"hospitals",
	"hotel",
	"hotels",
	"gas station",
	"gas stations",
	"bank",
	"banks",
	"atm",
	"pharmacy",
	"pharmacies",
}

// IsCalendarIntent reports whether text looks like a calendar request.
func IsCalendarIntent(text string) bool {
	return containsAny(strings.ToLower(text), calendarKeywords)
}

// IsLocationIntent reports whether text looks like a places/location request.
func IsLocationIntent(text string) bool {
	return containsAny(strings.ToLower(text), locationKeywords)
}

// Classify assigns the coarse intent for one utterance following the
// documented precedence.
func Classify(text string) Intent {
	for _, intent := range intentPriority {
		switch intent {
		case IntentLocation:
			if IsLocationIntent(text) {
				return IntentLocation
			}
		case IntentCalendar:
			if IsCalendarIntent(text) {
				return IntentCalendar
			}
		}
	}
	return IntentChat
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
