package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/pkg/httputil"
)

// BillingHandler serves quotations and invoices for the admin panel.
type BillingHandler struct {
	billing *services.BillingService
}

func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// --- Quotations ---

func (h *BillingHandler) HandleListQuotations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	rows, err := h.billing.ListQuotations(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

func (h *BillingHandler) HandleGetQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "quotationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}
	q, err := h.billing.GetQuotation(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, q)
}

func (h *BillingHandler) HandleCreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	q, err := h.billing.CreateQuotation(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, q)
}

func (h *BillingHandler) HandleUpdateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "quotationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	var req models.UpdateDocumentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.billing.UpdateQuotationStatus(r.Context(), id, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BillingHandler) HandleDeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "quotationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}
	if err := h.billing.DeleteQuotation(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleInvoiceQuotation handles POST .../quotations/{quotationID}/invoice.
func (h *BillingHandler) HandleInvoiceQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "quotationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	var req struct {
		DueDate *time.Time `json:"due_date,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}
	defer r.Body.Close()

	inv, err := h.billing.InvoiceFromQuotation(r.Context(), id, req.DueDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, inv)
}

// HandleExportQuotations handles GET .../quotations/export.
func (h *BillingHandler) HandleExportQuotations(w http.ResponseWriter, r *http.Request) {
	buf, err := h.billing.ExportQuotationsXLSX(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeWorkbook(w, "quotations", buf.Bytes())
}

// --- Invoices ---

func (h *BillingHandler) HandleListInvoices(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	rows, err := h.billing.ListInvoices(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

func (h *BillingHandler) HandleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "invoiceID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}
	inv, err := h.billing.GetInvoice(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, inv)
}

func (h *BillingHandler) HandleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	inv, err := h.billing.CreateInvoice(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, inv)
}

func (h *BillingHandler) HandleUpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "invoiceID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var req models.UpdateDocumentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.billing.UpdateInvoiceStatus(r.Context(), id, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BillingHandler) HandleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "invoiceID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}
	if err := h.billing.DeleteInvoice(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExportInvoices handles GET .../invoices/export.
func (h *BillingHandler) HandleExportInvoices(w http.ResponseWriter, r *http.Request) {
	buf, err := h.billing.ExportInvoicesXLSX(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeWorkbook(w, "invoices", buf.Bytes())
}

func writeWorkbook(w http.ResponseWriter, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
