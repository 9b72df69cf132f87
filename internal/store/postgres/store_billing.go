package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const quotationColumns = `id, number, lead_id, client_name, client_email, client_company, items,
	subtotal, tax_rate, total, status, valid_until, created_at, updated_at`

func scanQuotation(row pgx.Row) (*models.Quotation, error) {
	q := &models.Quotation{}
	err := row.Scan(
		&q.ID,
		&q.Number,
		&q.LeadID,
		&q.ClientName,
		&q.ClientEmail,
		&q.ClientCompany,
		&q.Items,
		&q.Subtotal,
		&q.TaxRate,
		&q.Total,
		&q.Status,
		&q.ValidUntil,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning quotation: %w", err)
	}
	return q, nil
}

const createQuotation = `-- name: CreateQuotation :one
INSERT INTO quotations (
    id, number, lead_id, client_name, client_email, client_company, items, subtotal, tax_rate, total, status, valid_until
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'draft', $11
)
RETURNING ` + quotationColumns + `;
`

func (s *PostgresStore) CreateQuotation(ctx context.Context, arg store.CreateQuotationParams) (*models.Quotation, error) {
	row := s.db.QueryRow(ctx, createQuotation,
		arg.ID,
		arg.Number,
		arg.LeadID,
		arg.ClientName,
		arg.ClientEmail,
		arg.ClientCompany,
		arg.Items,
		arg.Subtotal,
		arg.TaxRate,
		arg.Total,
		arg.ValidUntil,
	)
	return scanQuotation(row)
}

func (s *PostgresStore) GetQuotationByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	return scanQuotation(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ListQuotations(ctx context.Context, limit, offset int) ([]models.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying quotations: %w", err)
	}
	defer rows.Close()

	var items []models.Quotation
	for rows.Next() {
		var q models.Quotation
		if err := rows.Scan(
			&q.ID,
			&q.Number,
			&q.LeadID,
			&q.ClientName,
			&q.ClientEmail,
			&q.ClientCompany,
			&q.Items,
			&q.Subtotal,
			&q.TaxRate,
			&q.Total,
			&q.Status,
			&q.ValidUntil,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning quotation row: %w", err)
		}
		items = append(items, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotation rows: %w", err)
	}
	return items, nil
}

const updateQuotationStatus = `-- name: UpdateQuotationStatus :exec
UPDATE quotations
SET status = $2, updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.db.Exec(ctx, updateQuotationStatus, id, status)
	if err != nil {
		return fmt.Errorf("failed to update quotation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Invoices ---

const invoiceColumns = `id, number, quotation_id, client_name, client_email, client_company, items,
	subtotal, tax_rate, total, status, due_date, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.QuotationID,
		&inv.ClientName,
		&inv.ClientEmail,
		&inv.ClientCompany,
		&inv.Items,
		&inv.Subtotal,
		&inv.TaxRate,
		&inv.Total,
		&inv.Status,
		&inv.DueDate,
		&inv.PaidAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning invoice: %w", err)
	}
	return inv, nil
}

const createInvoice = `-- name: CreateInvoice :one
INSERT INTO invoices (
    id, number, quotation_id, client_name, client_email, client_company, items, subtotal, tax_rate, total, status, due_date
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'draft', $11
)
RETURNING ` + invoiceColumns + `;
`

func (s *PostgresStore) CreateInvoice(ctx context.Context, arg store.CreateInvoiceParams) (*models.Invoice, error) {
	row := s.db.QueryRow(ctx, createInvoice,
		arg.ID,
		arg.Number,
		arg.QuotationID,
		arg.ClientName,
		arg.ClientEmail,
		arg.ClientCompany,
		arg.Items,
		arg.Subtotal,
		arg.TaxRate,
		arg.Total,
		arg.DueDate,
	)
	return scanInvoice(row)
}

func (s *PostgresStore) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(s.db.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ListInvoices(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying invoices: %w", err)
	}
	defer rows.Close()

	var items []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(
			&inv.ID,
			&inv.Number,
			&inv.QuotationID,
			&inv.ClientName,
			&inv.ClientEmail,
			&inv.ClientCompany,
			&inv.Items,
			&inv.Subtotal,
			&inv.TaxRate,
			&inv.Total,
			&inv.Status,
			&inv.DueDate,
			&inv.PaidAt,
			&inv.CreatedAt,
			&inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning invoice row: %w", err)
		}
		items = append(items, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return items, nil
}

const updateInvoiceStatus = `-- name: UpdateInvoiceStatus :exec
UPDATE invoices
SET status = $2, paid_at = COALESCE($3, paid_at), updated_at = NOW()
WHERE id = $1;
`

func (s *PostgresStore) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error {
	tag, err := s.db.Exec(ctx, updateInvoiceStatus, id, status, paidAt)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
