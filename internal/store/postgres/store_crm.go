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

const leadColumns = `id, name, phone, email, company, source, status, owner, notes, created_at, updated_at`

func scanLead(row pgx.Row) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Phone,
		&l.Email,
		&l.Company,
		&l.Source,
		&l.Status,
		&l.Owner,
		&l.Notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning lead: %w", err)
	}
	return l, nil
}

const createLead = `-- name: CreateLead :exec
INSERT INTO leads (id, name, phone, email, company, source, status, owner, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func (s *PostgresStore) CreateLead(ctx context.Context, l *models.Lead) error {
	_, err := s.db.Exec(ctx, createLead,
		l.ID, l.Name, l.Phone, l.Email, l.Company, l.Source, l.Status, l.Owner, l.Notes,
	)
	if err != nil {
		return fmt.Errorf("database error creating lead: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ListLeads(ctx context.Context, limit, offset int) ([]models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying leads: %w", err)
	}
	defer rows.Close()

	var items []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Phone,
			&l.Email,
			&l.Company,
			&l.Source,
			&l.Status,
			&l.Owner,
			&l.Notes,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning lead row: %w", err)
		}
		items = append(items, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lead rows: %w", err)
	}
	return items, nil
}

const updateLead = `-- name: UpdateLead :exec
UPDATE leads
SET name = $2, phone = $3, email = $4, company = $5, source = $6, status = $7, owner = $8, notes = $9, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateLead(ctx context.Context, l *models.Lead) error {
	tag, err := s.db.Exec(ctx, updateLead,
		l.ID, l.Name, l.Phone, l.Email, l.Company, l.Source, l.Status, l.Owner, l.Notes,
	)
	if err != nil {
		return fmt.Errorf("database error updating lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteLead(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
