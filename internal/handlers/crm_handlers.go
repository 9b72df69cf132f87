package handlers

import (
	"encoding/json"
	"net/http"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/pkg/httputil"
)

// CRMHandler serves submissions and the lead pipeline for the admin panel.
type CRMHandler struct {
	crm *services.CRMService
}

func NewCRMHandler(crm *services.CRMService) *CRMHandler {
	return &CRMHandler{crm: crm}
}

// --- Form submissions ---

func (h *CRMHandler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	subs, err := h.crm.ListSubmissions(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]models.SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, models.SubmissionResponse{
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Phone:     s.Phone,
			Subject:   s.Subject,
			Message:   s.Message,
			CreatedAt: s.CreatedAt,
		})
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}

// HandleExportSubmissions handles GET .../submissions/export.
func (h *CRMHandler) HandleExportSubmissions(w http.ResponseWriter, r *http.Request) {
	buf, err := h.crm.ExportSubmissionsXLSX(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeWorkbook(w, "submissions", buf.Bytes())
}

func (h *CRMHandler) HandleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "submissionID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}
	if err := h.crm.DeleteSubmission(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleConvertSubmission handles POST .../submissions/{submissionID}/convert.
func (h *CRMHandler) HandleConvertSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "submissionID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}
	lead, err := h.crm.ConvertSubmission(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, toLeadResponse(lead))
}

// --- Leads ---

func (h *CRMHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	leads, err := h.crm.ListLeads(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]models.LeadResponse, 0, len(leads))
	for i := range leads {
		out = append(out, toLeadResponse(&leads[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}

func (h *CRMHandler) HandleGetLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "leadID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid lead ID")
		return
	}
	lead, err := h.crm.GetLead(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toLeadResponse(lead))
}

func (h *CRMHandler) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	lead, err := h.crm.CreateLead(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, toLeadResponse(lead))
}

func (h *CRMHandler) HandleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "leadID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	var req models.UpsertLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	lead, err := h.crm.UpdateLead(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toLeadResponse(lead))
}

func (h *CRMHandler) HandleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "leadID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid lead ID")
		return
	}
	if err := h.crm.DeleteLead(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExportLead handles POST .../leads/{leadID}/notion-export.
func (h *CRMHandler) HandleExportLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "leadID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid lead ID")
		return
	}
	if err := h.crm.ExportLeadToNotion(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toLeadResponse(l *models.Lead) models.LeadResponse {
	return models.LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Phone:     l.Phone,
		Email:     l.Email,
		Company:   l.Company,
		Source:    l.Source,
		Status:    l.Status,
		Owner:     l.Owner,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
