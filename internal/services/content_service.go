package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"agencydesk-backend/internal/hero"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

// ContentService serves the public website sections and their admin CRUD.
type ContentService struct {
	store   store.Store
	rotator *hero.Rotator
}

func NewContentService(s store.Store, rotator *hero.Rotator) *ContentService {
	return &ContentService{
		store:   s,
		rotator: rotator,
	}
}

// GetSection returns the active rows of one content section. Unknown or
// fully inactive sections return ErrNotFound; the frontend decides how to
// degrade.
func (s *ContentService) GetSection(ctx context.Context, section string) ([]models.ContentResponse, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	if section == "" {
		return nil, fmt.Errorf("%w: section is required", ErrValidation)
	}
	rows, err := s.store.GetContentBySection(ctx, section, true)
	if err != nil {
		return nil, fmt.Errorf("fetching section %s failed: %w", section, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	out := make([]models.ContentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toContentResponse(&rows[i]))
	}
	return out, nil
}

// GetHero returns the hero section together with the currently rotated
// headline and its index.
func (s *ContentService) GetHero(ctx context.Context) (*models.HeroResponse, error) {
	rows, err := s.GetSection(ctx, "hero")
	if err != nil {
		return nil, err
	}
	headline, index := s.rotator.Current()
	return &models.HeroResponse{
		ContentResponse: rows[0],
		Headline:        headline,
		HeadlineIndex:   index,
		Headlines:       s.rotator.Headlines(),
	}, nil
}

// GetContent returns one content row by ID, inactive rows included. The
// admin editor loads rows individually before editing them.
func (s *ContentService) GetContent(ctx context.Context, id uuid.UUID) (*models.ContentResponse, error) {
	row, err := s.store.GetContentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching content %s failed: %w", id, err)
	}
	resp := toContentResponse(row)
	return &resp, nil
}

func (s *ContentService) ListContent(ctx context.Context) ([]models.ContentResponse, error) {
	rows, err := s.store.ListContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing content failed: %w", err)
	}
	out := make([]models.ContentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toContentResponse(&rows[i]))
	}
	return out, nil
}

func (s *ContentService) CreateContent(ctx context.Context, userID uuid.UUID, req models.UpsertContentRequest) (*models.ContentResponse, error) {
	arg, err := contentParams(uuid.New(), userID, req)
	if err != nil {
		return nil, err
	}
	row, err := s.store.CreateContent(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("creating content failed: %w", err)
	}
	log.Printf("[Content] Created %s row %s", row.Section, row.ID)
	resp := toContentResponse(row)
	return &resp, nil
}

func (s *ContentService) UpdateContent(ctx context.Context, userID, id uuid.UUID, req models.UpsertContentRequest) (*models.ContentResponse, error) {
	arg, err := contentParams(id, userID, req)
	if err != nil {
		return nil, err
	}
	row, err := s.store.UpdateContent(ctx, arg)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating content failed: %w", err)
	}
	resp := toContentResponse(row)
	return &resp, nil
}

func (s *ContentService) DeleteContent(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteContent(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting content failed: %w", err)
	}
	return nil
}

func contentParams(id, userID uuid.UUID, req models.UpsertContentRequest) (store.UpsertContentParams, error) {
	section := strings.ToLower(strings.TrimSpace(req.Section))
	if section == "" || strings.TrimSpace(req.Title) == "" {
		return store.UpsertContentParams{}, fmt.Errorf("%w: section and title are required", ErrValidation)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	uid := userID
	return store.UpsertContentParams{
		ID:       id,
		Section:  section,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Metadata: req.Metadata,
		ImageURL: req.ImageURL,
		IsActive: active,
		UserID:   &uid,
	}, nil
}

// --- Services section ---

func (s *ContentService) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return s.store.ListServices(ctx, activeOnly)
}

func (s *ContentService) CreateService(ctx context.Context, req models.UpsertServiceRequest) (*models.Service, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	svc := &models.Service{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.CreateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("creating service failed: %w", err)
	}
	return svc, nil
}

func (s *ContentService) UpdateService(ctx context.Context, id uuid.UUID, req models.UpsertServiceRequest) (*models.Service, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	svc := &models.Service{
		ID:           id,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.UpdateService(ctx, svc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating service failed: %w", err)
	}
	return svc, nil
}

func (s *ContentService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteService(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting service failed: %w", err)
	}
	return nil
}

// --- Testimonials ---

func (s *ContentService) ListTestimonials(ctx context.Context, activeOnly bool) ([]models.Testimonial, error) {
	return s.store.ListTestimonials(ctx, activeOnly)
}

func (s *ContentService) CreateTestimonial(ctx context.Context, req models.UpsertTestimonialRequest) (*models.Testimonial, error) {
	if err := validateTestimonial(req); err != nil {
		return nil, err
	}
	t := &models.Testimonial{
		ID:            uuid.New(),
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientCompany: req.ClientCompany,
		Quote:         strings.TrimSpace(req.Quote),
		Rating:        req.Rating,
		AvatarURL:     req.AvatarURL,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.CreateTestimonial(ctx, t); err != nil {
		return nil, fmt.Errorf("creating testimonial failed: %w", err)
	}
	return t, nil
}

func (s *ContentService) UpdateTestimonial(ctx context.Context, id uuid.UUID, req models.UpsertTestimonialRequest) (*models.Testimonial, error) {
	if err := validateTestimonial(req); err != nil {
		return nil, err
	}
	t := &models.Testimonial{
		ID:            id,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientCompany: req.ClientCompany,
		Quote:         strings.TrimSpace(req.Quote),
		Rating:        req.Rating,
		AvatarURL:     req.AvatarURL,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.UpdateTestimonial(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating testimonial failed: %w", err)
	}
	return t, nil
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTestimonial(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting testimonial failed: %w", err)
	}
	return nil
}

func validateTestimonial(req models.UpsertTestimonialRequest) error {
	if strings.TrimSpace(req.ClientName) == "" || strings.TrimSpace(req.Quote) == "" {
		return fmt.Errorf("%w: client_name and quote are required", ErrValidation)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}

// --- Client logos ---

func (s *ContentService) ListClientLogos(ctx context.Context, activeOnly bool) ([]models.ClientLogo, error) {
	return s.store.ListClientLogos(ctx, activeOnly)
}

func (s *ContentService) CreateClientLogo(ctx context.Context, req models.UpsertClientLogoRequest) (*models.ClientLogo, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ImageURL) == "" {
		return nil, fmt.Errorf("%w: name and image_url are required", ErrValidation)
	}
	l := &models.ClientLogo{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		WebsiteURL:   req.WebsiteURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.CreateClientLogo(ctx, l); err != nil {
		return nil, fmt.Errorf("creating client logo failed: %w", err)
	}
	return l, nil
}

func (s *ContentService) UpdateClientLogo(ctx context.Context, id uuid.UUID, req models.UpsertClientLogoRequest) (*models.ClientLogo, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ImageURL) == "" {
		return nil, fmt.Errorf("%w: name and image_url are required", ErrValidation)
	}
	l := &models.ClientLogo{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		WebsiteURL:   req.WebsiteURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.UpdateClientLogo(ctx, l); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating client logo failed: %w", err)
	}
	return l, nil
}

func (s *ContentService) DeleteClientLogo(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteClientLogo(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting client logo failed: %w", err)
	}
	return nil
}

func toContentResponse(c *models.WebsiteContent) models.ContentResponse {
	return models.ContentResponse{
		ID:        c.ID,
		Section:   c.Section,
		Title:     c.Title,
		Content:   c.Content,
		Metadata:  c.Metadata,
		ImageURL:  c.ImageURL,
		IsActive:  c.IsActive,
		UpdatedAt: c.UpdatedAt,
	}
}
