package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/pkg/httputil"
)

// SettingsHandler serves the admin settings endpoints. Secret values never
// leave the server; List and Put redact them.
type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// HandleListSettings handles GET /v1/admin/settings.
func (h *SettingsHandler) HandleListSettings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.settings.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rows)
}

// HandlePutSetting handles PUT /v1/admin/settings/{key}.
func (h *SettingsHandler) HandlePutSetting(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	row, err := h.settings.Put(r.Context(), chi.URLParam(r, "key"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, row)
}

// HandleDeleteSetting handles DELETE /v1/admin/settings/{key}.
func (h *SettingsHandler) HandleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
