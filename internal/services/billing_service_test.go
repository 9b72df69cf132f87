package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

func TestComputeTotals(t *testing.T) {
	items := []models.DocumentItem{
		{Description: "Website redesign", Quantity: 1, UnitPrice: 15000000},
		{Description: "Support retainer", Quantity: 3, UnitPrice: 2000000},
	}
	out, subtotal, total := computeTotals(items, 11)

	if out[0].Amount != 15000000 || out[1].Amount != 6000000 {
		t.Errorf("amounts = %v/%v, want 15000000/6000000", out[0].Amount, out[1].Amount)
	}
	if subtotal != 21000000 {
		t.Errorf("subtotal = %v, want 21000000", subtotal)
	}
	if math.Abs(total-23310000) > 0.01 {
		t.Errorf("total = %v, want 23310000 (11%% tax)", total)
	}
	// Input slice is not mutated.
	if items[0].Amount != 0 {
		t.Error("computeTotals mutated its input")
	}
}

func TestComputeTotalsZeroTax(t *testing.T) {
	_, subtotal, total := computeTotals([]models.DocumentItem{
		{Description: "Logo", Quantity: 2, UnitPrice: 500},
	}, 0)
	if subtotal != 1000 || total != 1000 {
		t.Errorf("subtotal/total = %v/%v, want 1000/1000", subtotal, total)
	}
}

func TestValidateDocument(t *testing.T) {
	okItems := []models.DocumentItem{{Description: "Work", Quantity: 1, UnitPrice: 100}}
	tests := []struct {
		name       string
		clientName string
		items      []models.DocumentItem
		taxRate    float64
		wantErr    bool
	}{
		{name: "valid", clientName: "PT Maju", items: okItems, taxRate: 11},
		{name: "blank client", clientName: "  ", items: okItems, wantErr: true},
		{name: "no items", clientName: "PT Maju", items: nil, wantErr: true},
		{name: "zero quantity", clientName: "PT Maju", items: []models.DocumentItem{{Description: "Work", Quantity: 0, UnitPrice: 100}}, wantErr: true},
		{name: "negative price", clientName: "PT Maju", items: []models.DocumentItem{{Description: "Work", Quantity: 1, UnitPrice: -1}}, wantErr: true},
		{name: "blank description", clientName: "PT Maju", items: []models.DocumentItem{{Description: " ", Quantity: 1, UnitPrice: 100}}, wantErr: true},
		{name: "tax over 100", clientName: "PT Maju", items: okItems, taxRate: 101, wantErr: true},
		{name: "negative tax", clientName: "PT Maju", items: okItems, taxRate: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDocument(tt.clientName, tt.items, tt.taxRate)
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDocumentNumber(t *testing.T) {
	id := uuid.New()
	got := documentNumber("QUO", id)
	pattern := fmt.Sprintf(`^QUO-%s-[0-9A-F]{6}$`, time.Now().UTC().Format("20060102"))
	if ok, _ := regexp.MatchString(pattern, got); !ok {
		t.Errorf("documentNumber = %q, want match for %q", got, pattern)
	}
}

// billingMockStore stubs the quotation/invoice store calls.
type billingMockStore struct {
	store.Store

	createQuotation func(ctx context.Context, arg store.CreateQuotationParams) (*models.Quotation, error)
	getQuotation    func(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	createInvoice   func(ctx context.Context, arg store.CreateInvoiceParams) (*models.Invoice, error)
	updateQStatus   func(ctx context.Context, id uuid.UUID, status string) error
	updateIStatus   func(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error
}

func (m *billingMockStore) CreateQuotation(ctx context.Context, arg store.CreateQuotationParams) (*models.Quotation, error) {
	return m.createQuotation(ctx, arg)
}

func (m *billingMockStore) GetQuotationByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	return m.getQuotation(ctx, id)
}

func (m *billingMockStore) CreateInvoice(ctx context.Context, arg store.CreateInvoiceParams) (*models.Invoice, error) {
	return m.createInvoice(ctx, arg)
}

func (m *billingMockStore) UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.updateQStatus(ctx, id, status)
}

func (m *billingMockStore) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error {
	return m.updateIStatus(ctx, id, status, paidAt)
}

func TestCreateQuotationComputesTotals(t *testing.T) {
	var captured store.CreateQuotationParams
	ms := &billingMockStore{
		createQuotation: func(_ context.Context, arg store.CreateQuotationParams) (*models.Quotation, error) {
			captured = arg
			return &models.Quotation{ID: arg.ID, Number: arg.Number, Total: arg.Total}, nil
		},
	}
	svc := NewBillingService(ms)

	_, err := svc.CreateQuotation(context.Background(), models.UpsertQuotationRequest{
		ClientName: "PT Maju Jaya",
		Items:      []models.DocumentItem{{Description: "Branding", Quantity: 2, UnitPrice: 5000000}},
		TaxRate:    11,
	})
	if err != nil {
		t.Fatalf("CreateQuotation unexpected error: %v", err)
	}
	if captured.Subtotal != 10000000 {
		t.Errorf("subtotal = %v, want 10000000", captured.Subtotal)
	}
	if math.Abs(captured.Total-11100000) > 0.01 {
		t.Errorf("total = %v, want 11100000", captured.Total)
	}
	if ok, _ := regexp.MatchString(`^QUO-\d{8}-[0-9A-F]{6}$`, captured.Number); !ok {
		t.Errorf("number = %q, want QUO-YYYYMMDD-XXXXXX", captured.Number)
	}
}

func TestCreateQuotationValidates(t *testing.T) {
	ms := &billingMockStore{
		createQuotation: func(_ context.Context, _ store.CreateQuotationParams) (*models.Quotation, error) {
			t.Fatal("store must not be hit on validation failure")
			return nil, nil
		},
	}
	svc := NewBillingService(ms)

	_, err := svc.CreateQuotation(context.Background(), models.UpsertQuotationRequest{ClientName: "PT Maju"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestUpdateQuotationStatusRejectsUnknown(t *testing.T) {
	svc := NewBillingService(&billingMockStore{})
	err := svc.UpdateQuotationStatus(context.Background(), uuid.New(), "paid")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("error = %v, want ErrInvalidStatus for a non-quotation status", err)
	}
}

func TestUpdateInvoiceStatusPaidStampsPaidAt(t *testing.T) {
	var gotPaidAt *time.Time
	ms := &billingMockStore{
		updateIStatus: func(_ context.Context, _ uuid.UUID, status string, paidAt *time.Time) error {
			if status != "paid" {
				t.Errorf("status = %q, want paid", status)
			}
			gotPaidAt = paidAt
			return nil
		},
	}
	svc := NewBillingService(ms)

	if err := svc.UpdateInvoiceStatus(context.Background(), uuid.New(), "paid"); err != nil {
		t.Fatalf("UpdateInvoiceStatus unexpected error: %v", err)
	}
	if gotPaidAt == nil {
		t.Error("paid_at was not stamped on payment")
	}
}

func TestUpdateInvoiceStatusSentLeavesPaidAtNil(t *testing.T) {
	ms := &billingMockStore{
		updateIStatus: func(_ context.Context, _ uuid.UUID, _ string, paidAt *time.Time) error {
			if paidAt != nil {
				t.Error("paid_at must stay nil for non-paid statuses")
			}
			return nil
		},
	}
	svc := NewBillingService(ms)
	if err := svc.UpdateInvoiceStatus(context.Background(), uuid.New(), "sent"); err != nil {
		t.Fatalf("UpdateInvoiceStatus unexpected error: %v", err)
	}
}

func TestInvoiceFromQuotation(t *testing.T) {
	qID := uuid.New()
	quotation := &models.Quotation{
		ID:         qID,
		Number:     "QUO-20260101-ABCDEF",
		ClientName: "PT Maju",
		Status:     "accepted",
		Items:      []byte(`[{"description":"Branding","quantity":1,"unit_price":100,"amount":100}]`),
		Subtotal:   100,
		TaxRate:    11,
		Total:      111,
	}
	var captured store.CreateInvoiceParams
	ms := &billingMockStore{
		getQuotation: func(_ context.Context, id uuid.UUID) (*models.Quotation, error) {
			if id != qID {
				return nil, store.ErrNotFound
			}
			return quotation, nil
		},
		createInvoice: func(_ context.Context, arg store.CreateInvoiceParams) (*models.Invoice, error) {
			captured = arg
			return &models.Invoice{ID: arg.ID, Number: arg.Number}, nil
		},
	}
	svc := NewBillingService(ms)

	due := time.Now().Add(14 * 24 * time.Hour)
	if _, err := svc.InvoiceFromQuotation(context.Background(), qID, &due); err != nil {
		t.Fatalf("InvoiceFromQuotation unexpected error: %v", err)
	}
	if captured.QuotationID == nil || *captured.QuotationID != qID {
		t.Error("invoice does not reference the source quotation")
	}
	if captured.Subtotal != 100 || captured.Total != 111 {
		t.Errorf("totals = %v/%v, want copied 100/111", captured.Subtotal, captured.Total)
	}
	if captured.DueDate == nil || !captured.DueDate.Equal(due) {
		t.Error("due date was not carried over")
	}
}

func TestInvoiceFromQuotationRequiresAccepted(t *testing.T) {
	ms := &billingMockStore{
		getQuotation: func(_ context.Context, id uuid.UUID) (*models.Quotation, error) {
			return &models.Quotation{ID: id, Status: "sent"}, nil
		},
		createInvoice: func(_ context.Context, _ store.CreateInvoiceParams) (*models.Invoice, error) {
			t.Fatal("must not invoice an unaccepted quotation")
			return nil, nil
		},
	}
	svc := NewBillingService(ms)

	_, err := svc.InvoiceFromQuotation(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("error = %v, want ErrInvalidStatus", err)
	}
}
