package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidStatus    = errors.New("invalid document status")
)

var quotationStatuses = map[string]bool{
	"draft": true, "sent": true, "accepted": true, "rejected": true,
}

var invoiceStatuses = map[string]bool{
	"draft": true, "sent": true, "paid": true, "overdue": true,
}

// exportLimit caps workbook exports; the admin panel is not a data
// warehouse.
const exportLimit = 10000

// BillingService owns quotations and invoices. Totals are computed here
// once and stored; the store never re-derives money math.
type BillingService struct {
	store store.Store
}

func NewBillingService(s store.Store) *BillingService {
	return &BillingService{store: s}
}

// computeTotals fills Amount per line and returns (subtotal, total).
func computeTotals(items []models.DocumentItem, taxRate float64) ([]models.DocumentItem, float64, float64) {
	var subtotal float64
	out := make([]models.DocumentItem, len(items))
	for i, it := range items {
		it.Amount = it.Quantity * it.UnitPrice
		subtotal += it.Amount
		out[i] = it
	}
	total := subtotal * (1 + taxRate/100)
	return out, subtotal, total
}

func validateDocument(clientName string, items []models.DocumentItem, taxRate float64) error {
	if strings.TrimSpace(clientName) == "" {
		return fmt.Errorf("%w: client_name is required", ErrValidation)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}
	for i, it := range items {
		if strings.TrimSpace(it.Description) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return fmt.Errorf("%w: line item %d is invalid", ErrValidation, i+1)
		}
	}
	if taxRate < 0 || taxRate > 100 {
		return fmt.Errorf("%w: tax_rate must be between 0 and 100", ErrValidation)
	}
	return nil
}

// documentNumber produces e.g. QUO-20260831-3F2A1B.
func documentNumber(prefix string, id uuid.UUID) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), short)
}

// --- Quotations ---

func (s *BillingService) CreateQuotation(ctx context.Context, req models.UpsertQuotationRequest) (*models.Quotation, error) {
	if err := validateDocument(req.ClientName, req.Items, req.TaxRate); err != nil {
		return nil, err
	}
	items, subtotal, total := computeTotals(req.Items, req.TaxRate)
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding line items failed: %w", err)
	}

	id := uuid.New()
	q, err := s.store.CreateQuotation(ctx, store.CreateQuotationParams{
		ID:            id,
		Number:        documentNumber("QUO", id),
		LeadID:        req.LeadID,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   req.ClientEmail,
		ClientCompany: req.ClientCompany,
		Items:         itemsJSON,
		Subtotal:      subtotal,
		TaxRate:       req.TaxRate,
		Total:         total,
		ValidUntil:    req.ValidUntil,
	})
	if err != nil {
		return nil, fmt.Errorf("creating quotation failed: %w", err)
	}
	log.Printf("[Billing] Created quotation %s (%s, total %.2f)", q.Number, q.ID, q.Total)
	return q, nil
}

func (s *BillingService) GetQuotation(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	q, err := s.store.GetQuotationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve quotation: %w", err)
	}
	return q, nil
}

func (s *BillingService) ListQuotations(ctx context.Context, limit, offset int) ([]models.Quotation, error) {
	return s.store.ListQuotations(ctx, limit, offset)
}

func (s *BillingService) UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !quotationStatuses[status] {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.store.UpdateQuotationStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("updating quotation status failed: %w", err)
	}
	return nil
}

func (s *BillingService) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteQuotation(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("deleting quotation failed: %w", err)
	}
	return nil
}

// --- Invoices ---

func (s *BillingService) CreateInvoice(ctx context.Context, req models.UpsertInvoiceRequest) (*models.Invoice, error) {
	if err := validateDocument(req.ClientName, req.Items, req.TaxRate); err != nil {
		return nil, err
	}
	items, subtotal, total := computeTotals(req.Items, req.TaxRate)
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding line items failed: %w", err)
	}

	id := uuid.New()
	inv, err := s.store.CreateInvoice(ctx, store.CreateInvoiceParams{
		ID:            id,
		Number:        documentNumber("INV", id),
		QuotationID:   req.QuotationID,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   req.ClientEmail,
		ClientCompany: req.ClientCompany,
		Items:         itemsJSON,
		Subtotal:      subtotal,
		TaxRate:       req.TaxRate,
		Total:         total,
		DueDate:       req.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("creating invoice failed: %w", err)
	}
	log.Printf("[Billing] Created invoice %s (%s, total %.2f)", inv.Number, inv.ID, inv.Total)
	return inv, nil
}

// InvoiceFromQuotation creates an invoice copying an accepted quotation's
// client and line items.
func (s *BillingService) InvoiceFromQuotation(ctx context.Context, quotationID uuid.UUID, dueDate *time.Time) (*models.Invoice, error) {
	q, err := s.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if q.Status != "accepted" {
		return nil, fmt.Errorf("%w: only accepted quotations can be invoiced", ErrInvalidStatus)
	}

	id := uuid.New()
	qid := q.ID
	inv, err := s.store.CreateInvoice(ctx, store.CreateInvoiceParams{
		ID:            id,
		Number:        documentNumber("INV", id),
		QuotationID:   &qid,
		ClientName:    q.ClientName,
		ClientEmail:   q.ClientEmail,
		ClientCompany: q.ClientCompany,
		Items:         q.Items,
		Subtotal:      q.Subtotal,
		TaxRate:       q.TaxRate,
		Total:         q.Total,
		DueDate:       dueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("creating invoice from quotation failed: %w", err)
	}
	log.Printf("[Billing] Invoiced quotation %s as %s", q.Number, inv.Number)
	return inv, nil
}

func (s *BillingService) GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	inv, err := s.store.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve invoice: %w", err)
	}
	return inv, nil
}

func (s *BillingService) ListInvoices(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	return s.store.ListInvoices(ctx, limit, offset)
}

func (s *BillingService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !invoiceStatuses[status] {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var paidAt *time.Time
	if status == "paid" {
		now := time.Now().UTC()
		paidAt = &now
	}
	if err := s.store.UpdateInvoiceStatus(ctx, id, status, paidAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("updating invoice status failed: %w", err)
	}
	return nil
}

func (s *BillingService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("deleting invoice failed: %w", err)
	}
	return nil
}

// --- Excel exports ---

// ExportQuotationsXLSX renders the quotation list as an .xlsx workbook.
func (s *BillingService) ExportQuotationsXLSX(ctx context.Context) (*bytes.Buffer, error) {
	quotations, err := s.store.ListQuotations(ctx, exportLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("listing quotations for export failed: %w", err)
	}

	headers := []string{"Number", "Client", "Company", "Subtotal", "Tax Rate", "Total", "Status", "Valid Until", "Created"}
	rows := make([][]interface{}, 0, len(quotations))
	for _, q := range quotations {
		rows = append(rows, []interface{}{
			q.Number,
			q.ClientName,
			deref(q.ClientCompany),
			q.Subtotal,
			q.TaxRate,
			q.Total,
			q.Status,
			formatDate(q.ValidUntil),
			q.CreatedAt.Format("2006-01-02"),
		})
	}
	return buildSheet("Quotations", headers, rows)
}

// ExportInvoicesXLSX renders the invoice list as an .xlsx workbook.
func (s *BillingService) ExportInvoicesXLSX(ctx context.Context) (*bytes.Buffer, error) {
	invoices, err := s.store.ListInvoices(ctx, exportLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("listing invoices for export failed: %w", err)
	}

	headers := []string{"Number", "Client", "Company", "Subtotal", "Tax Rate", "Total", "Status", "Due Date", "Paid At", "Created"}
	rows := make([][]interface{}, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []interface{}{
			inv.Number,
			inv.ClientName,
			deref(inv.ClientCompany),
			inv.Subtotal,
			inv.TaxRate,
			inv.Total,
			inv.Status,
			formatDate(inv.DueDate),
			formatDate(inv.PaidAt),
			inv.CreatedAt.Format("2006-01-02"),
		})
	}
	return buildSheet("Invoices", headers, rows)
}

func buildSheet(sheet string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet failed: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook failed: %w", err)
	}
	return buf, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
