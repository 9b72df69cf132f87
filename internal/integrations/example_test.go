package integrations

import (
	"context"
	"fmt"

	"agencydesk-backend/internal/models"
)

// This is an example file showing how to use the lead integrations.
// These are not actual tests but examples of usage.

func ExampleNewSlackNotifier() {
	// Construction with empty credentials returns a nil notifier; every
	// method on it is a no-op, so callers never need their own nil checks.
	notifier := NewSlackNotifier("", "")

	err := notifier.NotifyNewLead(context.Background(), &models.Lead{
		Name:  "Budi Santoso",
		Phone: "6281234567890",
	})
	fmt.Println(err)
	// Output: <nil>
}

func ExampleNewNotionExporter() {
	// Same pattern: unconfigured means nil, and nil is safe to call.
	exporter := NewNotionExporter("", "")

	err := exporter.ExportLead(context.Background(), &models.Lead{
		Name:   "Budi Santoso",
		Phone:  "6281234567890",
		Source: "live_chat",
		Status: "new",
	})
	fmt.Println(err)
	// Output: <nil>
}
