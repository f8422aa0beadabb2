// README: Google Calendar integration with OAuth installed-app flow.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const upcomingEventsMax = 10

// Service drives calendar event creation. Initialization (loading
// client credentials) is separate from authentication (holding a user
// token): an initialized but unauthenticated service reports
// ErrAuthRequired on event operations, and the caller runs the OAuth
// code exchange to recover.
type Service struct {
	oauth    *oauth2.Config
	tokens   *TokenStore
	timezone *time.Location
}

// NewService loads OAuth installed-app credentials from the given file.
// A missing or empty credentials path leaves the service uninitialized
// rather than failing; every operation then reports ErrNotInitialized.
func NewService(credentialsPath, tokenPath string, tz *time.Location) (*Service, error) {
	s := &Service{tokens: NewTokenStore(tokenPath), timezone: tz}
	if credentialsPath == "" {
		return s, nil
	}

	raw, err := os.ReadFile(credentialsPath)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read calendar credentials: %w", err)
	}

	var creds struct {
		Installed struct {
			ClientID     string   `json:"client_id"`
			ClientSecret string   `json:"client_secret"`
			RedirectURIs []string `json:"redirect_uris"`
		} `json:"installed"`
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse calendar credentials: %w", err)
	}
	if creds.Installed.ClientID == "" {
		return nil, errors.New("calendar credentials missing installed client")
	}

	redirect := "urn:ietf:wg:oauth:2.0:oob"
	if len(creds.Installed.RedirectURIs) > 0 {
		redirect = creds.Installed.RedirectURIs[0]
	}
	s.oauth = &oauth2.Config{
		ClientID:     creds.Installed.ClientID,
		ClientSecret: creds.Installed.ClientSecret,
		RedirectURL:  redirect,
		Scopes:       []string{calendarapi.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
	return s, nil
}

// Ready reports whether client credentials are loaded. A ready service
// may still need authentication.
func (s *Service) Ready() bool { return s.oauth != nil }

// IsAuthenticated reports whether a saved user token exists.
func (s *Service) IsAuthenticated() bool {
	if s.oauth == nil {
		return false
	}
	tok, err := s.tokens.Load()
	return err == nil && tok != nil
}

// AuthURL returns the consent-screen URL the user must visit.
func (s *Service) AuthURL() (string, error) {
	if s.oauth == nil {
		return "", ErrNotInitialized
	}
	return s.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// AuthenticateWithCode exchanges the consent code for a token and saves it.
func (s *Service) AuthenticateWithCode(ctx context.Context, code string) error {
	if s.oauth == nil {
		return ErrNotInitialized
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}
	return s.tokens.Save(tok)
}

// SignOut discards the saved token.
func (s *Service) SignOut() error {
	return s.tokens.Clear()
}

// CreateEvent inserts an event into the user's primary calendar. A 401
// from the API clears the stale token and reports ErrAuthRequired so
// the caller can re-run the consent flow.
func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	svc, err := s.api(ctx)
	if err != nil {
		return nil, err
	}

	tz := s.timezone.String()
	ev := &calendarapi.Event{
		Summary: req.Title,
		Start: &calendarapi.EventDateTime{
			DateTime: req.Start.In(s.timezone).Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendarapi.EventDateTime{
			DateTime: req.End.In(s.timezone).Format(time.RFC3339),
			TimeZone: tz,
		},
	}

	created, err := svc.Events.Insert("primary", ev).Context(ctx).Do()
	if err != nil {
		return nil, s.mapAPIError(err)
	}
	return &Event{
		ID:       created.Id,
		Title:    created.Summary,
		Start:    req.Start,
		End:      req.End,
		HTMLLink: created.HtmlLink,
	}, nil
}

// ListUpcoming returns the next events from the primary calendar.
func (s *Service) ListUpcoming(ctx context.Context, from time.Time) ([]Event, error) {
	svc, err := s.api(ctx)
	if err != nil {
		return nil, err
	}

	res, err := svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		MaxResults(upcomingEventsMax).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, s.mapAPIError(err)
	}

	out := make([]Event, 0, len(res.Items))
	for _, it := range res.Items {
		ev := Event{ID: it.Id, Title: it.Summary, HTMLLink: it.HtmlLink}
		if it.Start != nil {
			ev.Start = parseEventTime(it.Start, s.timezone)
		}
		if it.End != nil {
			ev.End = parseEventTime(it.End, s.timezone)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *Service) api(ctx context.Context) (*calendarapi.Service, error) {
	if s.oauth == nil {
		return nil, ErrNotInitialized
	}
	tok, err := s.tokens.Load()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, ErrAuthRequired
	}
	return calendarapi.NewService(ctx, option.WithTokenSource(s.oauth.TokenSource(ctx, tok)))
}

// mapAPIError translates transport failures into the package's error
// taxonomy. Expired or revoked tokens surface as 401; the stale token
// is cleared so the next attempt starts a fresh consent flow.
func (s *Service) mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		_ = s.tokens.Clear()
		return ErrAuthRequired
	}
	return err
}

func parseEventTime(dt *calendarapi.EventDateTime, tz *time.Location) time.Time {
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t.In(tz)
		}
	}
	if dt.Date != "" {
		if t, err := time.ParseInLocation("2006-01-02", dt.Date, tz); err == nil {
			return t
		}
	}
	return time.Time{}
}
