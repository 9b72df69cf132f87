package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"agencydesk-backend/internal/integrations"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
	"agencydesk-backend/internal/whatsapp"
)

var (
	ErrSubmissionNotFound = errors.New("form submission not found")
	ErrLeadNotFound       = errors.New("lead not found")
)

var leadStatuses = map[string]bool{
	"new": true, "contacted": true, "qualified": true, "won": true, "lost": true,
}

// CRMService owns contact-form submissions and the lead pipeline.
type CRMService struct {
	store        store.Store
	defaultOwner string
	slack        *integrations.SlackNotifier
	notion       *integrations.NotionExporter
}

func NewCRMService(s store.Store, defaultOwner string, slack *integrations.SlackNotifier, notion *integrations.NotionExporter) *CRMService {
	return &CRMService{
		store:        s,
		defaultOwner: defaultOwner,
		slack:        slack,
		notion:       notion,
	}
}

// SubmitContactForm stores a public contact-form entry.
func (s *CRMService) SubmitContactForm(ctx context.Context, req models.ContactRequest) (*models.FormSubmission, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is not valid", ErrValidation)
	}

	sub := &models.FormSubmission{
		ID:      uuid.New(),
		Name:    name,
		Email:   email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: message,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("storing submission failed: %w", err)
	}
	log.Printf("[CRM] Stored contact-form submission %s from %s", sub.ID, email)
	return sub, nil
}

func (s *CRMService) ListSubmissions(ctx context.Context, limit, offset int) ([]models.FormSubmission, error) {
	return s.store.ListSubmissions(ctx, limit, offset)
}

func (s *CRMService) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteSubmission(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("deleting submission failed: %w", err)
	}
	return nil
}

// ExportSubmissionsXLSX renders the submission list as an .xlsx workbook.
func (s *CRMService) ExportSubmissionsXLSX(ctx context.Context) (*bytes.Buffer, error) {
	subs, err := s.store.ListSubmissions(ctx, exportLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("listing submissions for export failed: %w", err)
	}

	headers := []string{"Name", "Email", "Phone", "Subject", "Message", "Received"}
	rows := make([][]interface{}, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, []interface{}{
			sub.Name,
			sub.Email,
			deref(sub.Phone),
			deref(sub.Subject),
			sub.Message,
			sub.CreatedAt.Format("2006-01-02"),
		})
	}
	return buildSheet("Submissions", headers, rows)
}

// ConvertSubmission turns a contact-form submission into a lead with
// source `contact_form`. The submission row is kept.
func (s *CRMService) ConvertSubmission(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	sub, err := s.store.GetSubmissionByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve submission: %w", err)
	}

	phone := ""
	if sub.Phone != nil {
		if normalized, err := whatsapp.NormalizeNumber(*sub.Phone); err == nil {
			phone = normalized
		}
	}

	email := sub.Email
	lead := &models.Lead{
		ID:     uuid.New(),
		Name:   sub.Name,
		Phone:  phone,
		Email:  &email,
		Source: "contact_form",
		Status: "new",
		Owner:  s.defaultOwner,
		Notes:  sub.Subject,
	}
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("creating lead from submission failed: %w", err)
	}
	log.Printf("[CRM] Converted submission %s to lead %s", id, lead.ID)

	go s.notifyLead(lead)
	return lead, nil
}

func (s *CRMService) notifyLead(lead *models.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.slack.NotifyNewLead(ctx, lead); err != nil {
		log.Printf("[CRM] WARN: Slack lead alert failed for %s: %v", lead.ID, err)
	}
	if err := s.notion.ExportLead(ctx, lead); err != nil {
		log.Printf("[CRM] WARN: Notion lead export failed for %s: %v", lead.ID, err)
	}
}

// CreateLead creates a lead entered manually in the admin panel.
func (s *CRMService) CreateLead(ctx context.Context, req models.UpsertLeadRequest) (*models.Lead, error) {
	lead, err := s.leadFromRequest(uuid.New(), req)
	if err != nil {
		return nil, err
	}
	if lead.Source == "" {
		lead.Source = "manual"
	}
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("creating lead failed: %w", err)
	}
	log.Printf("[CRM] Created lead %s (%s)", lead.ID, lead.Name)
	return lead, nil
}

func (s *CRMService) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead, err := s.store.GetLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to retrieve lead: %w", err)
	}
	return lead, nil
}

func (s *CRMService) ListLeads(ctx context.Context, limit, offset int) ([]models.Lead, error) {
	return s.store.ListLeads(ctx, limit, offset)
}

func (s *CRMService) UpdateLead(ctx context.Context, id uuid.UUID, req models.UpsertLeadRequest) (*models.Lead, error) {
	existing, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	lead, err := s.leadFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	if lead.Source == "" {
		lead.Source = existing.Source
	}
	lead.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateLead(ctx, lead); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("updating lead failed: %w", err)
	}
	return lead, nil
}

func (s *CRMService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteLead(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("deleting lead failed: %w", err)
	}
	return nil
}

// ExportLeadToNotion pushes one lead into the shared Notion database on
// demand from the admin panel.
func (s *CRMService) ExportLeadToNotion(ctx context.Context, id uuid.UUID) error {
	if s.notion == nil {
		return fmt.Errorf("%w: notion export is not configured", ErrValidation)
	}
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return err
	}
	if err := s.notion.ExportLead(ctx, lead); err != nil {
		return fmt.Errorf("notion export failed: %w", err)
	}
	return nil
}

func (s *CRMService) leadFromRequest(id uuid.UUID, req models.UpsertLeadRequest) (*models.Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	phone := ""
	if strings.TrimSpace(req.Phone) != "" {
		normalized, err := whatsapp.NormalizeNumber(req.Phone)
		if err != nil {
			return nil, fmt.Errorf("%w: phone is not valid", ErrValidation)
		}
		phone = normalized
	}
	status := req.Status
	if status == "" {
		status = "new"
	}
	if !leadStatuses[status] {
		return nil, fmt.Errorf("%w: unknown lead status %q", ErrValidation, status)
	}
	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		owner = s.defaultOwner
	}
	return &models.Lead{
		ID:      id,
		Name:    name,
		Phone:   phone,
		Email:   req.Email,
		Company: req.Company,
		Source:  req.Source,
		Status:  status,
		Owner:   owner,
		Notes:   req.Notes,
	}, nil
}
