// Package integrations holds outbound connectors for third-party services
// the agency team already lives in: Slack for lead alerts and Notion for
// the shared CRM board.
package integrations

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"agencydesk-backend/internal/models"
)

// SlackNotifier posts new-lead alerts to a Slack channel.
type SlackNotifier struct {
	client    *slack.Client
	channelID string
}

// NewSlackNotifier returns a notifier, or nil when no bot token is
// configured so callers can skip notification without a nil check on
// every field.
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &SlackNotifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

// NotifyNewLead posts a short alert for a freshly captured lead. Errors are
// returned for logging only; lead capture never fails on a Slack outage.
func (n *SlackNotifier) NotifyNewLead(ctx context.Context, lead *models.Lead) error {
	if n == nil {
		return nil
	}

	text := fmt.Sprintf("New lead: *%s*", lead.Name)
	if lead.Phone != "" {
		text += fmt.Sprintf(" (%s)", lead.Phone)
	}
	text += fmt.Sprintf("\nSource: %s | Status: %s", lead.Source, lead.Status)

	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("slack: post lead alert to %s: %w", n.channelID, err)
	}

	log.Printf("[Integrations] Posted lead alert for %s to Slack channel %s", lead.ID, n.channelID)
	return nil
}
