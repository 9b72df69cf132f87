package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/internal/whatsapp"
	"agencydesk-backend/pkg/httputil"
)

// PublicHandler serves everything the marketing site renders without
// authentication.
type PublicHandler struct {
	content  *services.ContentService
	crm      *services.CRMService
	settings *services.SettingsService
}

func NewPublicHandler(content *services.ContentService, crm *services.CRMService, settings *services.SettingsService) *PublicHandler {
	return &PublicHandler{
		content:  content,
		crm:      crm,
		settings: settings,
	}
}

// HandleGetHero handles GET /v1/content/hero.
func (h *PublicHandler) HandleGetHero(w http.ResponseWriter, r *http.Request) {
	hero, err := h.content.GetHero(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, hero)
}

// HandleGetSection handles GET /v1/content/{section}.
func (h *PublicHandler) HandleGetSection(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.GetSection(r.Context(), chi.URLParam(r, "section"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

// HandleListServices handles GET /v1/services.
func (h *PublicHandler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListServices(r.Context(), true)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

// HandleListTestimonials handles GET /v1/testimonials.
func (h *PublicHandler) HandleListTestimonials(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListTestimonials(r.Context(), true)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

// HandleListClientLogos handles GET /v1/client-logos.
func (h *PublicHandler) HandleListClientLogos(w http.ResponseWriter, r *http.Request) {
	rows, err := h.content.ListClientLogos(r.Context(), true)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

// HandleContact handles POST /v1/contact.
func (h *PublicHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	sub, err := h.crm.SubmitContactForm(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, models.SubmissionResponse{
		ID:        sub.ID,
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Subject:   sub.Subject,
		Message:   sub.Message,
		CreatedAt: sub.CreatedAt,
	})
}

// HandleSiteInfo handles GET /v1/site-info: the footer block (contact
// info, social links, copyright) in one response.
func (h *PublicHandler) HandleSiteInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"contact_info": h.settings.ContactInfo(ctx),
		"social_media": h.settings.SocialMedia(ctx),
		"copyright":    h.settings.Copyright(ctx),
	})
}

// HandleWhatsAppLink handles GET /v1/whatsapp/link. The number and default
// message come from settings; an optional text query overrides the message.
func (h *PublicHandler) HandleWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	cfg := h.settings.WhatsApp(r.Context())
	message := cfg.DefaultMessage
	if text := r.URL.Query().Get("text"); text != "" {
		message = text
	}

	link, err := whatsapp.BuildLink(cfg.Number, message)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "WhatsApp number is not configured")
		return
	}
	number, _ := whatsapp.NormalizeNumber(cfg.Number)
	httputil.RespondJSON(w, http.StatusOK, models.WhatsAppLinkResponse{
		Number: number,
		Link:   link,
	})
}

// HandleWhatsAppQR handles GET /v1/whatsapp/qr, returning the deep link as
// a PNG QR code.
func (h *PublicHandler) HandleWhatsAppQR(w http.ResponseWriter, r *http.Request) {
	cfg := h.settings.WhatsApp(r.Context())
	message := cfg.DefaultMessage
	if text := r.URL.Query().Get("text"); text != "" {
		message = text
	}

	png, err := whatsapp.LinkQR(cfg.Number, message, 0)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
