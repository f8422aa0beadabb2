// README: Assistant orchestrates intent routing across NLP, chat, places and calendar.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"sky/internal/ai"
	"sky/internal/maps"
	"sky/internal/modules/calendar"
	"sky/internal/modules/conversation"
	"sky/internal/nlp"
)

const (
	// defaultSearchRadiusMeters bounds nearby searches around the resolved
	// origin.
	defaultSearchRadiusMeters = 5000

	// branchTimeout caps one intent branch so a stuck backend cannot hold
	// the request forever.
	branchTimeout = 30 * time.Second

	// minHistoryWindow is the floor for the chat history window.
	minHistoryWindow     = 2
	defaultHistoryWindow = 6

	fallbackEventTitle = "New Event"
)

// Canned assistant responses. The two location-failure messages share the
// "unable to determine your location" phrase the UI keys on, but differ in
// remediation.
const (
	msgSearchingPlaces = "Searching for places..."
	msgThinking        = "Thinking..."

	msgLocationDenied = "Location access was denied, so I'm unable to determine your location. " +
		"You can allow location access, or name a place instead (for example \"cafes in Paris\")."
	msgLocationUnknown = "I'm unable to determine your location right now. " +
		"Try naming a place instead (for example \"cafes in Paris\")."

	msgQuotaExhausted = "I've hit the AI request limit for now. Please wait a minute and try again."
	msgOverloaded     = "The AI service is overloaded right now. Please try again in a moment."
	msgChatFailed     = "Sorry, something went wrong while generating a response. Please try again."
	msgSearchFailed   = "Sorry, the place search failed. Please try again."
)

// PlaceSearcher is the places collaborator, satisfied by *maps.PlacesService.
type PlaceSearcher interface {
	SearchNearby(ctx context.Context, req maps.NearbyRequest) ([]maps.Place, error)
	SearchText(ctx context.Context, req maps.TextRequest) ([]maps.Place, error)
	Geocode(ctx context.Context, address string) (maps.Point, error)
}

// LocationResolver resolves the user's current coordinates, satisfied by
// *maps.Locator.
type LocationResolver interface {
	Resolve(ctx context.Context, fix maps.ClientFix) (maps.Point, error)
}

// CalendarClient is the calendar collaborator, satisfied by *calendar.Service.
type CalendarClient interface {
	Ready() bool
	IsAuthenticated() bool
	AuthURL() (string, error)
	AuthenticateWithCode(ctx context.Context, code string) error
	CreateEvent(ctx context.Context, req calendar.CreateEventRequest) (*calendar.Event, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]calendar.Event, error)
	SignOut() error
}

// ConversationLog is the message-log collaborator, satisfied by
// *conversation.Service.
type ConversationLog interface {
	Ensure(ctx context.Context, id string) (*conversation.Conversation, error)
	AppendUser(ctx context.Context, conversationID, content string) (*conversation.Message, error)
	AppendPlaceholder(ctx context.Context, conversationID, content string) (*conversation.Message, error)
	ResolvePlaceholder(ctx context.Context, m *conversation.Message, content string, status conversation.Status, event *conversation.EventDraft) (*conversation.Message, error)
	History(ctx context.Context, conversationID string, n int) ([]conversation.Message, error)
}

// Result is the conversation delta produced by one utterance: the recorded
// user message plus the assistant's reply.
type Result struct {
	ConversationID string               `json:"conversation_id"`
	UserMessage    conversation.Message `json:"user_message"`
	Reply          conversation.Message `json:"reply"`
	Places         []maps.Place         `json:"places,omitempty"`
}

// Assistant routes each utterance to exactly one handler. Location intent is
// checked before calendar intent: location queries often carry time-like
// words ("open now", "tonight") that would otherwise trip the calendar
// keywords, while the reverse misfire is rare. The calendar branch engages
// only when the calendar backend is configured; otherwise the utterance is
// plain chat. Chat is the fallback.
type Assistant struct {
	chat     ai.ChatProvider
	places   PlaceSearcher
	locator  LocationResolver
	calendar CalendarClient
	convs    ConversationLog
	events   *nlp.EventParser
	log      *zap.SugaredLogger

	historyWindow int

	mu      sync.Mutex
	pending *pendingEvent
}

// pendingEvent is a confirmed draft waiting for calendar authorization.
type pendingEvent struct {
	conversationID string
	draft          conversation.EventDraft
}

// NewAssistant wires the router. historyWindow below the floor is clamped.
func NewAssistant(
	chat ai.ChatProvider,
	places PlaceSearcher,
	locator LocationResolver,
	cal CalendarClient,
	convs ConversationLog,
	events *nlp.EventParser,
	historyWindow int,
	log *zap.SugaredLogger,
) *Assistant {
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	if historyWindow < minHistoryWindow {
		historyWindow = minHistoryWindow
	}
	return &Assistant{
		chat:          chat,
		places:        places,
		locator:       locator,
		calendar:      cal,
		convs:         convs,
		events:        events,
		log:           log,
		historyWindow: historyWindow,
	}
}

// HandleUtterance runs the full pipeline for one user message. The user
// message is recorded before any routing, so it survives backend failures.
func (a *Assistant) HandleUtterance(ctx context.Context, conversationID, text string, fix maps.ClientFix) (*Result, error) {
	conv, err := a.convs.Ensure(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("ensure conversation: %w", err)
	}

	userMsg, err := a.convs.AppendUser(ctx, conv.ID, text)
	if err != nil {
		return nil, fmt.Errorf("record user message: %w", err)
	}

	res := &Result{ConversationID: conv.ID, UserMessage: *userMsg}

	switch {
	case nlp.IsLocationIntent(text):
		// Terminal: location failures answer the user, never fall through.
		return a.handleLocation(ctx, res, text, fix)

	case nlp.IsCalendarIntent(text) && a.calendar.Ready():
		parsed := a.events.Parse(text)
		if parsed.Valid {
			return a.handleCalendar(ctx, res, parsed)
		}
		a.log.Debugw("calendar keywords matched but no date/time found, treating as chat",
			"conversation_id", conv.ID, "reason", parsed.Err)
		fallthrough

	default:
		return a.handleChat(ctx, res, text)
	}
}

func (a *Assistant) handleLocation(ctx context.Context, res *Result, text string, fix maps.ClientFix) (*Result, error) {
	placeholder, err := a.convs.AppendPlaceholder(ctx, res.ConversationID, msgSearchingPlaces)
	if err != nil {
		return nil, fmt.Errorf("append placeholder: %w", err)
	}

	bctx, cancel := context.WithTimeout(ctx, branchTimeout)
	defer cancel()

	query := nlp.ParseLocationQuery(text)

	content, places, searchErr := a.runPlaceSearch(bctx, query, fix)
	status := conversation.StatusSent
	if searchErr != nil {
		status = conversation.StatusError
	}

	reply, err := a.convs.ResolvePlaceholder(ctx, placeholder, content, status, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve placeholder: %w", err)
	}
	res.Reply = *reply
	res.Places = places
	return res, nil
}

// runPlaceSearch executes the search strategy the query descriptor selected
// and returns the message content to show. A non-nil error marks the reply
// as failed but is already rendered into the content.
func (a *Assistant) runPlaceSearch(ctx context.Context, q nlp.ParsedLocationQuery, fix maps.ClientFix) (string, []maps.Place, error) {
	var origin *maps.Point

	switch {
	case q.UseCurrentLocation:
		p, err := a.locator.Resolve(ctx, fix)
		if err != nil {
			return locationFailureMessage(err), nil, err
		}
		origin = &p

	case q.Location != "":
		p, err := a.places.Geocode(ctx, q.Location)
		if err != nil {
			a.log.Warnw("geocode failed, falling back to text search", "place", q.Location, "error", err)
		} else {
			origin = &p
		}

	default:
		// No anchor named: best-effort current location for biasing only.
		if p, err := a.locator.Resolve(ctx, fix); err == nil {
			origin = &p
		}
	}

	var (
		places []maps.Place
		err    error
	)
	if origin != nil && (q.PlaceType != "" || q.Keyword != "") {
		places, err = a.places.SearchNearby(ctx, maps.NearbyRequest{
			Location:     *origin,
			RadiusMeters: defaultSearchRadiusMeters,
			PlaceType:    string(q.PlaceType),
			Keyword:      q.Keyword,
		})
	} else {
		places, err = a.places.SearchText(ctx, maps.TextRequest{Query: q.Query, Location: origin})
	}
	if err != nil {
		a.log.Errorw("place search failed", "query", q.Query, "error", err)
		return msgSearchFailed, nil, err
	}

	if len(places) == 0 {
		return fmt.Sprintf("I couldn't find any places matching %q.", q.Query), nil, nil
	}
	return formatPlaces(places), places, nil
}

func locationFailureMessage(err error) string {
	if errors.Is(err, maps.ErrPermissionDenied) {
		return msgLocationDenied
	}
	return msgLocationUnknown
}

func (a *Assistant) handleCalendar(ctx context.Context, res *Result, parsed nlp.ParsedEvent) (*Result, error) {
	title := parsed.Title
	if title == "" {
		title = fallbackEventTitle
	}
	draft := &conversation.EventDraft{Title: title, Start: parsed.Start, End: parsed.End}

	placeholder, err := a.convs.AppendPlaceholder(ctx, res.ConversationID, msgThinking)
	if err != nil {
		return nil, fmt.Errorf("append placeholder: %w", err)
	}

	content := formatEventSummary(*draft) + "\n\nShall I add this to your calendar?"
	reply, err := a.convs.ResolvePlaceholder(ctx, placeholder, content, conversation.StatusSent, draft)
	if err != nil {
		return nil, fmt.Errorf("resolve placeholder: %w", err)
	}
	res.Reply = *reply
	return res, nil
}

func (a *Assistant) handleChat(ctx context.Context, res *Result, text string) (*Result, error) {
	// Fetch history before appending the placeholder so the prompt does not
	// include it. The freshly recorded user message is dropped too: it is
	// passed as the live message.
	history, err := a.convs.History(ctx, res.ConversationID, a.historyWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	placeholder, err := a.convs.AppendPlaceholder(ctx, res.ConversationID, msgThinking)
	if err != nil {
		return nil, fmt.Errorf("append placeholder: %w", err)
	}

	bctx, cancel := context.WithTimeout(ctx, branchTimeout)
	defer cancel()

	reply, chatErr := a.chat.SendMessage(bctx, text, toChatHistory(history, res.UserMessage.ID))

	content := reply
	status := conversation.StatusSent
	if chatErr != nil {
		status = conversation.StatusError
		content = chatFailureMessage(chatErr)
		a.log.Errorw("chat completion failed", "conversation_id", res.ConversationID, "error", chatErr)
	}

	final, err := a.convs.ResolvePlaceholder(ctx, placeholder, content, status, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve placeholder: %w", err)
	}
	res.Reply = *final
	return res, nil
}

func chatFailureMessage(err error) string {
	switch {
	case errors.Is(err, ai.ErrQuotaExhausted):
		return msgQuotaExhausted
	case errors.Is(err, ai.ErrOverloaded):
		return msgOverloaded
	default:
		return msgChatFailed
	}
}

// toChatHistory converts stored messages to prompt turns, skipping the
// message with excludeID and any unresolved placeholders.
func toChatHistory(history []conversation.Message, excludeID string) []ai.Message {
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		if m.ID == excludeID || m.Status != conversation.StatusSent {
			continue
		}
		out = append(out, ai.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// ConfirmEvent commits a (possibly user-edited) event draft to the calendar.
// When authorization is missing, the draft is parked and the reply carries
// the consent URL; CompleteAuth retries the parked draft automatically.
func (a *Assistant) ConfirmEvent(ctx context.Context, conversationID string, draft conversation.EventDraft) (*conversation.Message, error) {
	if draft.Title == "" {
		draft.Title = fallbackEventTitle
	}

	msg, err := a.createEvent(ctx, conversationID, draft)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (a *Assistant) createEvent(ctx context.Context, conversationID string, draft conversation.EventDraft) (*conversation.Message, error) {
	placeholder, err := a.convs.AppendPlaceholder(ctx, conversationID, "Adding to your calendar...")
	if err != nil {
		return nil, fmt.Errorf("append placeholder: %w", err)
	}

	bctx, cancel := context.WithTimeout(ctx, branchTimeout)
	defer cancel()

	ev, createErr := a.calendar.CreateEvent(bctx, calendar.CreateEventRequest{
		Title: draft.Title,
		Start: draft.Start,
		End:   draft.End,
	})

	var (
		content string
		status  = conversation.StatusSent
	)
	switch {
	case createErr == nil:
		content = fmt.Sprintf("Added %q to your calendar.", ev.Title)
		if ev.HTMLLink != "" {
			content += "\n" + ev.HTMLLink
		}

	case errors.Is(createErr, calendar.ErrAuthRequired):
		a.parkPending(conversationID, draft)
		url, urlErr := a.calendar.AuthURL()
		if urlErr != nil {
			status = conversation.StatusError
			content = "Google Calendar isn't configured on this machine, so I can't create events."
		} else {
			content = "I need access to your Google Calendar first. Open this link, approve access, " +
				"and paste the code back here:\n" + url
		}

	case errors.Is(createErr, calendar.ErrNotInitialized):
		status = conversation.StatusError
		content = "Google Calendar isn't configured on this machine, so I can't create events."

	default:
		status = conversation.StatusError
		content = "Sorry, creating the calendar event failed. Please try again."
		a.log.Errorw("calendar event creation failed", "conversation_id", conversationID, "error", createErr)
	}

	return a.convs.ResolvePlaceholder(ctx, placeholder, content, status, nil)
}

// CompleteAuth finishes the OAuth code exchange. A draft parked by
// ConfirmEvent is retried once; a second auth failure surfaces normally.
func (a *Assistant) CompleteAuth(ctx context.Context, code string) (*conversation.Message, error) {
	if err := a.calendar.AuthenticateWithCode(ctx, code); err != nil {
		return nil, fmt.Errorf("calendar auth: %w", err)
	}

	pending := a.takePending()
	if pending == nil {
		return nil, nil
	}
	return a.createEvent(ctx, pending.conversationID, pending.draft)
}

// UpcomingEvents lists the next calendar events.
func (a *Assistant) UpcomingEvents(ctx context.Context, from time.Time) ([]calendar.Event, error) {
	return a.calendar.ListUpcoming(ctx, from)
}

func (a *Assistant) parkPending(conversationID string, draft conversation.EventDraft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &pendingEvent{conversationID: conversationID, draft: draft}
}

func (a *Assistant) takePending() *pendingEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.pending
	a.pending = nil
	return p
}

// formatEventSummary renders a draft for the confirmation message.
func formatEventSummary(d conversation.EventDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s\n", d.Title)
	fmt.Fprintf(&b, "When: %s", d.Start.Format("Mon, Jan 2 at 3:04 PM"))
	if d.End.After(d.Start) {
		fmt.Fprintf(&b, " – %s", d.End.Format("3:04 PM"))
	}
	return b.String()
}

// formatPlaces renders search results as a numbered list.
func formatPlaces(places []maps.Place) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n")
	for i, p := range places {
		fmt.Fprintf(&b, "\n%d. %s", i+1, p.Name)
		if p.Rating > 0 {
			fmt.Fprintf(&b, " (%.1f★)", p.Rating)
		}
		if p.Address != "" {
			fmt.Fprintf(&b, "\n   %s", p.Address)
		}
		if p.DistanceMeters > 0 {
			fmt.Fprintf(&b, "\n   %s away", formatDistance(p.DistanceMeters))
		}
	}
	return b.String()
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
