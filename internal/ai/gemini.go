package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	geminiModel = "gemini-2.0-flash"

	// overloadedRetryWait is the single bounded wait before the one retry
	// allowed for 503-class responses.
	overloadedRetryWait = 2 * time.Second
)

// GeminiProvider implements ChatProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel(geminiModel)
	model.SetTemperature(0.7)

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// SendMessage sends the utterance with prior turns as chat history.
// Retry policy: one bounded retry for overloaded (503-class) responses only;
// quota errors (429-class) fail fast.
func (p *GeminiProvider) SendMessage(ctx context.Context, message string, history []Message) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("gemini: empty message")
	}

	session := p.model.StartChat()
	session.History = toGenaiHistory(history)

	reply, err := p.send(ctx, session, message)
	if err == nil {
		return reply, nil
	}
	if !errors.Is(err, ErrOverloaded) {
		return "", err
	}

	select {
	case <-time.After(overloadedRetryWait):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return p.send(ctx, session, message)
}

func (p *GeminiProvider) send(ctx context.Context, session *genai.ChatSession, message string) (string, error) {
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: API returned empty candidates")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		parts = append(parts, string(txt))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: API returned empty text parts")
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// toGenaiHistory converts prior turns to SDK content. The backend rejects a
// history whose first entry is not from the user role, so leading non-user
// turns are trimmed.
func toGenaiHistory(history []Message) []*genai.Content {
	history = trimLeadingNonUser(history)
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role != "user" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

func trimLeadingNonUser(history []Message) []Message {
	for i, m := range history {
		if m.Role == "user" {
			return history[i:]
		}
	}
	return nil
}

// classifyError maps transport failures onto the retry taxonomy.
func classifyError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 429:
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		case gerr.Code == 503 || gerr.Code == 502:
			return fmt.Errorf("%w: %v", ErrOverloaded, err)
		}
	}
	// The SDK sometimes surfaces overload as a plain error string.
	msg := err.Error()
	if strings.Contains(msg, "overloaded") || strings.Contains(msg, "503") {
		return fmt.Errorf("%w: %v", ErrOverloaded, err)
	}
	if strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota") {
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	}
	return fmt.Errorf("gemini: generate content: %w", err)
}
