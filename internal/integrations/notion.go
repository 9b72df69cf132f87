package integrations

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jomei/notionapi"

	"agencydesk-backend/internal/models"
)

// NotionExporter mirrors CRM leads into a shared Notion database.
type NotionExporter struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

// NewNotionExporter returns an exporter, or nil when no token is configured.
func NewNotionExporter(token, databaseID string) *NotionExporter {
	if token == "" || databaseID == "" {
		return nil
	}
	return &NotionExporter{
		client:     notionapi.NewClient(notionapi.Token(token)),
		databaseID: notionapi.DatabaseID(databaseID),
	}
}

// TestConnection verifies the token by fetching the bot user. Used at
// startup to fail fast on a revoked integration secret.
func (e *NotionExporter) TestConnection(ctx context.Context) error {
	if e == nil {
		return nil
	}
	botUser, err := e.client.User.Me(ctx)
	if err != nil {
		var notionErr *notionapi.Error
		if errors.As(err, &notionErr) && notionErr.Status == 401 {
			return fmt.Errorf("notion: invalid API token (unauthorized)")
		}
		return fmt.Errorf("notion: connection test: %w", err)
	}
	log.Printf("[Integrations] Notion token verified for bot %q", botUser.Name)
	return nil
}

// ExportLead creates a page for the lead in the configured database.
// The database is expected to have Name (title), Phone, Email, Company,
// Source, Status and Owner properties.
func (e *NotionExporter) ExportLead(ctx context.Context, lead *models.Lead) error {
	if e == nil {
		return nil
	}

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: richText(lead.Name),
		},
		"Phone": notionapi.RichTextProperty{
			RichText: richText(lead.Phone),
		},
		"Source": notionapi.SelectProperty{
			Select: notionapi.Option{Name: lead.Source},
		},
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{Name: lead.Status},
		},
		"Owner": notionapi.RichTextProperty{
			RichText: richText(lead.Owner),
		},
	}
	if lead.Email != nil && *lead.Email != "" {
		props["Email"] = notionapi.EmailProperty{Email: *lead.Email}
	}
	if lead.Company != nil && *lead.Company != "" {
		props["Company"] = notionapi.RichTextProperty{RichText: richText(*lead.Company)}
	}

	_, err := e.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: e.databaseID,
		},
		Properties: props,
	})
	if err != nil {
		return fmt.Errorf("notion: create lead page for %s: %w", lead.ID, err)
	}

	log.Printf("[Integrations] Exported lead %s to Notion database %s", lead.ID, e.databaseID)
	return nil
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}
