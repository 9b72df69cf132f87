package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"agencydesk-backend/internal/hero"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

type contentMockStore struct {
	store.Store

	getBySection      func(ctx context.Context, section string, activeOnly bool) ([]models.WebsiteContent, error)
	getByID           func(ctx context.Context, id uuid.UUID) (*models.WebsiteContent, error)
	createContent     func(ctx context.Context, arg store.UpsertContentParams) (*models.WebsiteContent, error)
	createTestimonial func(ctx context.Context, tst *models.Testimonial) error
}

func (m *contentMockStore) GetContentByID(ctx context.Context, id uuid.UUID) (*models.WebsiteContent, error) {
	return m.getByID(ctx, id)
}

func (m *contentMockStore) GetContentBySection(ctx context.Context, section string, activeOnly bool) ([]models.WebsiteContent, error) {
	return m.getBySection(ctx, section, activeOnly)
}

func (m *contentMockStore) CreateContent(ctx context.Context, arg store.UpsertContentParams) (*models.WebsiteContent, error) {
	return m.createContent(ctx, arg)
}

func (m *contentMockStore) CreateTestimonial(ctx context.Context, tst *models.Testimonial) error {
	return m.createTestimonial(ctx, tst)
}

func TestGetSectionNormalizesAndFilters(t *testing.T) {
	var gotSection string
	var gotActiveOnly bool
	ms := &contentMockStore{
		getBySection: func(_ context.Context, section string, activeOnly bool) ([]models.WebsiteContent, error) {
			gotSection = section
			gotActiveOnly = activeOnly
			return []models.WebsiteContent{{ID: uuid.New(), Section: section, Title: "About Us"}}, nil
		},
	}
	svc := NewContentService(ms, hero.NewRotator(nil, 0))

	rows, err := svc.GetSection(context.Background(), "  About  ")
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	if gotSection != "about" {
		t.Errorf("section = %q, want lowercased/trimmed", gotSection)
	}
	if !gotActiveOnly {
		t.Error("public reads must filter to active rows")
	}
	if len(rows) != 1 || rows[0].Title != "About Us" {
		t.Errorf("rows = %+v, want the stored row", rows)
	}
}

func TestGetSectionEmptyIsNotFound(t *testing.T) {
	ms := &contentMockStore{
		getBySection: func(_ context.Context, _ string, _ bool) ([]models.WebsiteContent, error) {
			return nil, nil
		},
	}
	svc := NewContentService(ms, hero.NewRotator(nil, 0))

	if _, err := svc.GetSection(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetContentReturnsInactiveRows(t *testing.T) {
	contentID := uuid.New()
	ms := &contentMockStore{
		getByID: func(_ context.Context, id uuid.UUID) (*models.WebsiteContent, error) {
			if id != contentID {
				return nil, store.ErrNotFound
			}
			return &models.WebsiteContent{ID: id, Section: "about", Title: "Draft", IsActive: false}, nil
		},
	}
	svc := NewContentService(ms, hero.NewRotator(nil, 0))

	row, err := svc.GetContent(context.Background(), contentID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if row.ID != contentID || row.Title != "Draft" {
		t.Errorf("row = %+v, want the stored draft", row)
	}
	if row.IsActive {
		t.Error("admin reads must include inactive rows as stored")
	}

	if _, err := svc.GetContent(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown ID error = %v, want ErrNotFound", err)
	}
}

func TestGetHeroIncludesRotatedHeadline(t *testing.T) {
	ms := &contentMockStore{
		getBySection: func(_ context.Context, section string, _ bool) ([]models.WebsiteContent, error) {
			return []models.WebsiteContent{{ID: uuid.New(), Section: section, Title: "Hero", UpdatedAt: time.Now()}}, nil
		},
	}
	headlines := []string{"We build brands", "We ship websites"}
	svc := NewContentService(ms, hero.NewRotator(headlines, 0))

	resp, err := svc.GetHero(context.Background())
	if err != nil {
		t.Fatalf("GetHero: %v", err)
	}
	if resp.Headline != "We build brands" || resp.HeadlineIndex != 0 {
		t.Errorf("headline = %q/%d, want first headline", resp.Headline, resp.HeadlineIndex)
	}
	if len(resp.Headlines) != 2 {
		t.Errorf("headlines = %v, want the full set", resp.Headlines)
	}
	if resp.Title != "Hero" {
		t.Errorf("title = %q, want the hero row", resp.Title)
	}
}

func TestCreateContentValidation(t *testing.T) {
	svc := NewContentService(&contentMockStore{}, hero.NewRotator(nil, 0))

	_, err := svc.CreateContent(context.Background(), uuid.New(), models.UpsertContentRequest{Title: "no section"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestCreateContentDefaultsActive(t *testing.T) {
	var captured store.UpsertContentParams
	ms := &contentMockStore{
		createContent: func(_ context.Context, arg store.UpsertContentParams) (*models.WebsiteContent, error) {
			captured = arg
			return &models.WebsiteContent{ID: arg.ID, Section: arg.Section, Title: arg.Title, IsActive: arg.IsActive}, nil
		},
	}
	svc := NewContentService(ms, hero.NewRotator(nil, 0))
	userID := uuid.New()

	resp, err := svc.CreateContent(context.Background(), userID, models.UpsertContentRequest{
		Section: "Portfolio",
		Title:   "  Case Study  ",
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if captured.Section != "portfolio" || captured.Title != "Case Study" {
		t.Errorf("section/title = %q/%q, want normalized", captured.Section, captured.Title)
	}
	if !captured.IsActive {
		t.Error("new content must default to active")
	}
	if captured.UserID == nil || *captured.UserID != userID {
		t.Error("author was not recorded")
	}
	if !resp.IsActive {
		t.Error("response does not reflect the stored row")
	}
}

func TestCreateTestimonialRatingBounds(t *testing.T) {
	svc := NewContentService(&contentMockStore{}, hero.NewRotator(nil, 0))

	for _, rating := range []int{0, 6} {
		_, err := svc.CreateTestimonial(context.Background(), models.UpsertTestimonialRequest{
			ClientName: "PT Maju",
			Quote:      "Great work",
			Rating:     rating,
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("rating %d: error = %v, want ErrValidation", rating, err)
		}
	}
}
