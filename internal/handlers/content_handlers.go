package handlers

import (
	"encoding/json"
	"net/http"

	"agencydesk-backend/internal/auth"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/pkg/httputil"
)

// ContentHandler serves the admin content-editing endpoints.
type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// HandleListContent handles GET /v1/admin/content (all rows, inactive
// included).
func (h *ContentHandler) HandleListContent(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListContent(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

// HandleGetContent handles GET /v1/admin/content/{contentID}.
func (h *ContentHandler) HandleGetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "contentID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid content ID")
		return
	}
	row, err := h.content.GetContent(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, row)
}

// HandleCreateContent handles POST /v1/admin/content.
func (h *ContentHandler) HandleCreateContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}

	var req models.UpsertContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	row, err := h.content.CreateContent(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, row)
}

// HandleUpdateContent handles PUT /v1/admin/content/{contentID}.
func (h *ContentHandler) HandleUpdateContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}
	id, err := uuidParam(r, "contentID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid content ID")
		return
	}

	var req models.UpsertContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	row, err := h.content.UpdateContent(r.Context(), userID, id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, row)
}

// HandleDeleteContent handles DELETE /v1/admin/content/{contentID}.
func (h *ContentHandler) HandleDeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "contentID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid content ID")
		return
	}
	if err := h.content.DeleteContent(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Services section ---

func (h *ContentHandler) HandleListServicesAdmin(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListServices(r.Context(), false)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

func (h *ContentHandler) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	svc, err := h.content.CreateService(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, svc)
}

func (h *ContentHandler) HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "serviceID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var req models.UpsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	svc, err := h.content.UpdateService(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, svc)
}

func (h *ContentHandler) HandleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "serviceID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}
	if err := h.content.DeleteService(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Testimonials ---

func (h *ContentHandler) HandleListTestimonialsAdmin(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListTestimonials(r.Context(), false)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

func (h *ContentHandler) HandleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	t, err := h.content.CreateTestimonial(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, t)
}

func (h *ContentHandler) HandleUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "testimonialID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid testimonial ID")
		return
	}

	var req models.UpsertTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	t, err := h.content.UpdateTestimonial(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, t)
}

func (h *ContentHandler) HandleDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "testimonialID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid testimonial ID")
		return
	}
	if err := h.content.DeleteTestimonial(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Client logos ---

func (h *ContentHandler) HandleListClientLogosAdmin(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListClientLogos(r.Context(), false)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

func (h *ContentHandler) HandleCreateClientLogo(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertClientLogoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	l, err := h.content.CreateClientLogo(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, l)
}

func (h *ContentHandler) HandleUpdateClientLogo(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "logoID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid logo ID")
		return
	}

	var req models.UpsertClientLogoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	l, err := h.content.UpdateClientLogo(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, l)
}

func (h *ContentHandler) HandleDeleteClientLogo(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "logoID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid logo ID")
		return
	}
	if err := h.content.DeleteClientLogo(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
