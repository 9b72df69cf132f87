// Package transcript posts closed-conversation histories to the external
// transcript-email function.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"agencydesk-backend/internal/models"
)

var ErrNotConfigured = errors.New("transcript: function URL not configured")

// Payload is the body posted to the transcript function.
type Payload struct {
	ConversationID string                   `json:"conversation_id"`
	CustomerName   string                   `json:"customer_name"`
	CustomerEmail  *string                  `json:"customer_email,omitempty"`
	Rating         *int                     `json:"rating,omitempty"`
	Feedback       *string                  `json:"feedback,omitempty"`
	StartedAt      time.Time                `json:"started_at"`
	EndedAt        *time.Time               `json:"ended_at,omitempty"`
	Messages       []models.MessageResponse `json:"messages"`
}

// Sender posts transcripts with a static bearer token.
type Sender struct {
	url    string
	token  string
	client *http.Client
}

// NewSender returns a Sender. An empty url produces a sender whose Send
// always returns ErrNotConfigured; the caller decides whether that is fatal.
func NewSender(url, token string) *Sender {
	return &Sender{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether an endpoint is set.
func (s *Sender) Configured() bool { return s.url != "" }

// Send posts the payload. Non-2xx responses are errors so the job queue
// can retry.
func (s *Sender) Send(ctx context.Context, p Payload) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("transcript: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("transcript: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("transcript: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("transcript: function returned status %d", resp.StatusCode)
	}
	return nil
}
