// README: Calendar event types and error definitions.
package calendar

import (
	"errors"
	"time"
)

var (
	// ErrNotInitialized means no OAuth client credentials were configured.
	ErrNotInitialized = errors.New("calendar not initialized")
	// ErrAuthRequired means there is no valid token; the caller should
	// direct the user through the OAuth flow and retry.
	ErrAuthRequired = errors.New("calendar authentication required")
)

type CreateEventRequest struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	HTMLLink string    `json:"html_link,omitempty"`
}
