package postgres

import (
	"context"
	"errors"
	"fmt"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Website content, services, testimonials, client logos and contact-form
// submissions: the tables behind the public site's sections.

const contentColumns = `id, section, title, content, metadata, image_url, is_active, user_id, created_at, updated_at`

func scanContent(row pgx.Row) (*models.WebsiteContent, error) {
	c := &models.WebsiteContent{}
	err := row.Scan(
		&c.ID,
		&c.Section,
		&c.Title,
		&c.Content,
		&c.Metadata,
		&c.ImageURL,
		&c.IsActive,
		&c.UserID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning website content: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) collectContent(ctx context.Context, query string, args ...interface{}) ([]models.WebsiteContent, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying website content: %w", err)
	}
	defer rows.Close()

	var items []models.WebsiteContent
	for rows.Next() {
		var c models.WebsiteContent
		if err := rows.Scan(
			&c.ID,
			&c.Section,
			&c.Title,
			&c.Content,
			&c.Metadata,
			&c.ImageURL,
			&c.IsActive,
			&c.UserID,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning website content row: %w", err)
		}
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating website content rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetContentBySection(ctx context.Context, section string, activeOnly bool) ([]models.WebsiteContent, error) {
	query := `SELECT ` + contentColumns + ` FROM website_content WHERE section = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at ASC`
	return s.collectContent(ctx, query, section)
}

func (s *PostgresStore) GetContentByID(ctx context.Context, id uuid.UUID) (*models.WebsiteContent, error) {
	query := `SELECT ` + contentColumns + ` FROM website_content WHERE id = $1`
	return scanContent(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ListContent(ctx context.Context) ([]models.WebsiteContent, error) {
	query := `SELECT ` + contentColumns + ` FROM website_content ORDER BY section, created_at ASC`
	return s.collectContent(ctx, query)
}

const createContent = `-- name: CreateContent :one
INSERT INTO website_content (
    id, section, title, content, metadata, image_url, is_active, user_id
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
)
RETURNING id, section, title, content, metadata, image_url, is_active, user_id, created_at, updated_at;
`

func (s *PostgresStore) CreateContent(ctx context.Context, arg store.UpsertContentParams) (*models.WebsiteContent, error) {
	row := s.db.QueryRow(ctx, createContent,
		arg.ID,
		arg.Section,
		arg.Title,
		arg.Content,
		arg.Metadata,
		arg.ImageURL,
		arg.IsActive,
		arg.UserID,
	)
	return scanContent(row)
}

const updateContent = `-- name: UpdateContent :one
UPDATE website_content
SET section = $2, title = $3, content = $4, metadata = $5, image_url = $6, is_active = $7, user_id = $8, updated_at = NOW()
WHERE id = $1
RETURNING id, section, title, content, metadata, image_url, is_active, user_id, created_at, updated_at;
`

func (s *PostgresStore) UpdateContent(ctx context.Context, arg store.UpsertContentParams) (*models.WebsiteContent, error) {
	row := s.db.QueryRow(ctx, updateContent,
		arg.ID,
		arg.Section,
		arg.Title,
		arg.Content,
		arg.Metadata,
		arg.ImageURL,
		arg.IsActive,
		arg.UserID,
	)
	return scanContent(row)
}

const deleteContent = `-- name: DeleteContent :exec
DELETE FROM website_content WHERE id = $1;
`

func (s *PostgresStore) DeleteContent(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, deleteContent, id)
	if err != nil {
		return fmt.Errorf("error executing delete website content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Services ---

const serviceColumns = `id, title, description, icon, display_order, is_active, created_at, updated_at`

func (s *PostgresStore) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order ASC, created_at ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	var items []models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(
			&svc.ID,
			&svc.Title,
			&svc.Description,
			&svc.Icon,
			&svc.DisplayOrder,
			&svc.IsActive,
			&svc.CreatedAt,
			&svc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning service row: %w", err)
		}
		items = append(items, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return items, nil
}

const createService = `-- name: CreateService :exec
INSERT INTO services (id, title, description, icon, display_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6);
`

func (s *PostgresStore) CreateService(ctx context.Context, svc *models.Service) error {
	_, err := s.db.Exec(ctx, createService,
		svc.ID, svc.Title, svc.Description, svc.Icon, svc.DisplayOrder, svc.IsActive,
	)
	if err != nil {
		return fmt.Errorf("database error creating service: %w", err)
	}
	return nil
}

const updateService = `-- name: UpdateService :exec
UPDATE services
SET title = $2, description = $3, icon = $4, display_order = $5, is_active = $6, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateService(ctx context.Context, svc *models.Service) error {
	tag, err := s.db.Exec(ctx, updateService,
		svc.ID, svc.Title, svc.Description, svc.Icon, svc.DisplayOrder, svc.IsActive,
	)
	if err != nil {
		return fmt.Errorf("database error updating service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Testimonials ---

const testimonialColumns = `id, client_name, client_company, quote, rating, avatar_url, is_active, created_at, updated_at`

func (s *PostgresStore) ListTestimonials(ctx context.Context, activeOnly bool) ([]models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying testimonials: %w", err)
	}
	defer rows.Close()

	var items []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(
			&t.ID,
			&t.ClientName,
			&t.ClientCompany,
			&t.Quote,
			&t.Rating,
			&t.AvatarURL,
			&t.IsActive,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning testimonial row: %w", err)
		}
		items = append(items, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating testimonial rows: %w", err)
	}
	return items, nil
}

const createTestimonial = `-- name: CreateTestimonial :exec
INSERT INTO testimonials (id, client_name, client_company, quote, rating, avatar_url, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func (s *PostgresStore) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	_, err := s.db.Exec(ctx, createTestimonial,
		t.ID, t.ClientName, t.ClientCompany, t.Quote, t.Rating, t.AvatarURL, t.IsActive,
	)
	if err != nil {
		return fmt.Errorf("database error creating testimonial: %w", err)
	}
	return nil
}

const updateTestimonial = `-- name: UpdateTestimonial :exec
UPDATE testimonials
SET client_name = $2, client_company = $3, quote = $4, rating = $5, avatar_url = $6, is_active = $7, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	tag, err := s.db.Exec(ctx, updateTestimonial,
		t.ID, t.ClientName, t.ClientCompany, t.Quote, t.Rating, t.AvatarURL, t.IsActive,
	)
	if err != nil {
		return fmt.Errorf("database error updating testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Client logos ---

const logoColumns = `id, name, image_url, website_url, display_order, is_active, created_at, updated_at`

func (s *PostgresStore) ListClientLogos(ctx context.Context, activeOnly bool) ([]models.ClientLogo, error) {
	query := `SELECT ` + logoColumns + ` FROM client_logos`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order ASC, created_at ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying client logos: %w", err)
	}
	defer rows.Close()

	var items []models.ClientLogo
	for rows.Next() {
		var l models.ClientLogo
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.ImageURL,
			&l.WebsiteURL,
			&l.DisplayOrder,
			&l.IsActive,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning client logo row: %w", err)
		}
		items = append(items, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client logo rows: %w", err)
	}
	return items, nil
}

const createClientLogo = `-- name: CreateClientLogo :exec
INSERT INTO client_logos (id, name, image_url, website_url, display_order, is_active)
VALUES ($1, $2, $3, $4, $5, $6);
`

func (s *PostgresStore) CreateClientLogo(ctx context.Context, l *models.ClientLogo) error {
	_, err := s.db.Exec(ctx, createClientLogo,
		l.ID, l.Name, l.ImageURL, l.WebsiteURL, l.DisplayOrder, l.IsActive,
	)
	if err != nil {
		return fmt.Errorf("database error creating client logo: %w", err)
	}
	return nil
}

const updateClientLogo = `-- name: UpdateClientLogo :exec
UPDATE client_logos
SET name = $2, image_url = $3, website_url = $4, display_order = $5, is_active = $6, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateClientLogo(ctx context.Context, l *models.ClientLogo) error {
	tag, err := s.db.Exec(ctx, updateClientLogo,
		l.ID, l.Name, l.ImageURL, l.WebsiteURL, l.DisplayOrder, l.IsActive,
	)
	if err != nil {
		return fmt.Errorf("database error updating client logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteClientLogo(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM client_logos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete client logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Form submissions ---

const submissionColumns = `id, name, email, phone, subject, message, created_at`

const createSubmission = `-- name: CreateSubmission :exec
INSERT INTO form_submissions (id, name, email, phone, subject, message)
VALUES ($1, $2, $3, $4, $5, $6);
`

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *models.FormSubmission) error {
	_, err := s.db.Exec(ctx, createSubmission,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Subject, sub.Message,
	)
	if err != nil {
		return fmt.Errorf("database error creating form submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSubmissions(ctx context.Context, limit, offset int) ([]models.FormSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM form_submissions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying form submissions: %w", err)
	}
	defer rows.Close()

	var items []models.FormSubmission
	for rows.Next() {
		var sub models.FormSubmission
		if err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Email,
			&sub.Phone,
			&sub.Subject,
			&sub.Message,
			&sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning form submission row: %w", err)
		}
		items = append(items, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating form submission rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM form_submissions WHERE id = $1`
	sub := &models.FormSubmission{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.Phone,
		&sub.Subject,
		&sub.Message,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning form submission: %w", err)
	}
	return sub, nil
}

func (s *PostgresStore) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM form_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete form submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
