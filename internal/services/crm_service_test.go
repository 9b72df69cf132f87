package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

type crmMockStore struct {
	store.Store

	createSubmission func(ctx context.Context, sub *models.FormSubmission) error
	getSubmission    func(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error)
	createLead       func(ctx context.Context, lead *models.Lead) error
	getLead          func(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	updateLead       func(ctx context.Context, lead *models.Lead) error
}

func (m *crmMockStore) CreateSubmission(ctx context.Context, sub *models.FormSubmission) error {
	return m.createSubmission(ctx, sub)
}

func (m *crmMockStore) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error) {
	return m.getSubmission(ctx, id)
}

func (m *crmMockStore) CreateLead(ctx context.Context, lead *models.Lead) error {
	return m.createLead(ctx, lead)
}

func (m *crmMockStore) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return m.getLead(ctx, id)
}

func (m *crmMockStore) UpdateLead(ctx context.Context, lead *models.Lead) error {
	return m.updateLead(ctx, lead)
}

func crmTestService(ms *crmMockStore) *CRMService {
	return NewCRMService(ms, "admin", nil, nil)
}

func TestSubmitContactForm(t *testing.T) {
	var captured *models.FormSubmission
	ms := &crmMockStore{
		createSubmission: func(_ context.Context, sub *models.FormSubmission) error {
			captured = sub
			return nil
		},
	}
	svc := crmTestService(ms)

	sub, err := svc.SubmitContactForm(context.Background(), models.ContactRequest{
		Name:    "  Budi  ",
		Email:   "Budi@Example.COM",
		Message: "Need a website",
	})
	if err != nil {
		t.Fatalf("SubmitContactForm: %v", err)
	}
	if captured == nil {
		t.Fatal("submission was not stored")
	}
	if sub.Name != "Budi" || sub.Email != "budi@example.com" {
		t.Errorf("name/email = %q/%q, want trimmed/lowercased", sub.Name, sub.Email)
	}
}

func TestSubmitContactFormValidation(t *testing.T) {
	svc := crmTestService(&crmMockStore{})

	tests := []struct {
		name string
		req  models.ContactRequest
	}{
		{name: "missing name", req: models.ContactRequest{Email: "a@b.id", Message: "hi"}},
		{name: "missing email", req: models.ContactRequest{Name: "A", Message: "hi"}},
		{name: "missing message", req: models.ContactRequest{Name: "A", Email: "a@b.id"}},
		{name: "email without at", req: models.ContactRequest{Name: "A", Email: "not-an-email", Message: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitContactForm(context.Background(), tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestConvertSubmission(t *testing.T) {
	subID := uuid.New()
	phone := "0812-3456-7890"
	subject := "Website quote"
	var captured *models.Lead
	ms := &crmMockStore{
		getSubmission: func(_ context.Context, id uuid.UUID) (*models.FormSubmission, error) {
			return &models.FormSubmission{
				ID:      id,
				Name:    "Budi",
				Email:   "budi@example.com",
				Phone:   &phone,
				Subject: &subject,
				Message: "Need a website",
			}, nil
		},
		createLead: func(_ context.Context, lead *models.Lead) error {
			captured = lead
			return nil
		},
	}
	svc := crmTestService(ms)

	lead, err := svc.ConvertSubmission(context.Background(), subID)
	if err != nil {
		t.Fatalf("ConvertSubmission: %v", err)
	}
	if captured == nil {
		t.Fatal("lead was not created")
	}
	if lead.Source != "contact_form" {
		t.Errorf("source = %q, want contact_form", lead.Source)
	}
	if lead.Phone != "6281234567890" {
		t.Errorf("phone = %q, want normalized", lead.Phone)
	}
	if lead.Status != "new" || lead.Owner != "admin" {
		t.Errorf("status/owner = %q/%q, want new/admin", lead.Status, lead.Owner)
	}
	if lead.Email == nil || *lead.Email != "budi@example.com" {
		t.Error("email was not carried over")
	}
}

func TestConvertSubmissionNotFound(t *testing.T) {
	ms := &crmMockStore{
		getSubmission: func(_ context.Context, _ uuid.UUID) (*models.FormSubmission, error) {
			return nil, store.ErrNotFound
		},
	}
	svc := crmTestService(ms)

	if _, err := svc.ConvertSubmission(context.Background(), uuid.New()); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("error = %v, want ErrSubmissionNotFound", err)
	}
}

func TestCreateLeadDefaults(t *testing.T) {
	ms := &crmMockStore{
		createLead: func(_ context.Context, _ *models.Lead) error { return nil },
	}
	svc := crmTestService(ms)

	lead, err := svc.CreateLead(context.Background(), models.UpsertLeadRequest{
		Name:  "PT Sentosa",
		Phone: "0811111111",
	})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if lead.Source != "manual" {
		t.Errorf("source = %q, want manual", lead.Source)
	}
	if lead.Status != "new" {
		t.Errorf("status = %q, want new", lead.Status)
	}
	if lead.Owner != "admin" {
		t.Errorf("owner = %q, want default owner", lead.Owner)
	}
	if lead.Phone != "62811111111" {
		t.Errorf("phone = %q, want normalized", lead.Phone)
	}
}

func TestCreateLeadRejectsUnknownStatus(t *testing.T) {
	svc := crmTestService(&crmMockStore{})
	_, err := svc.CreateLead(context.Background(), models.UpsertLeadRequest{Name: "X", Status: "archived"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestUpdateLeadPreservesCreatedAtAndSource(t *testing.T) {
	leadID := uuid.New()
	existing := &models.Lead{
		ID:     leadID,
		Name:   "Old Name",
		Source: "live_chat",
		Status: "new",
		Owner:  "admin",
	}
	var captured *models.Lead
	ms := &crmMockStore{
		getLead: func(_ context.Context, _ uuid.UUID) (*models.Lead, error) {
			return existing, nil
		},
		updateLead: func(_ context.Context, lead *models.Lead) error {
			captured = lead
			return nil
		},
	}
	svc := crmTestService(ms)

	lead, err := svc.UpdateLead(context.Background(), leadID, models.UpsertLeadRequest{
		Name:   "New Name",
		Status: "qualified",
	})
	if err != nil {
		t.Fatalf("UpdateLead: %v", err)
	}
	if captured == nil {
		t.Fatal("update was not stored")
	}
	if lead.Source != "live_chat" {
		t.Errorf("source = %q, want preserved live_chat", lead.Source)
	}
	if lead.Name != "New Name" || lead.Status != "qualified" {
		t.Errorf("name/status = %q/%q, want updated", lead.Name, lead.Status)
	}
}

func TestExportLeadToNotionUnconfigured(t *testing.T) {
	svc := crmTestService(&crmMockStore{})
	if err := svc.ExportLeadToNotion(context.Background(), uuid.New()); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation when notion is not configured", err)
	}
}
