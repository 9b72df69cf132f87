package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agencydesk-backend/internal/storage"
	"agencydesk-backend/pkg/httputil"
)

// maxUploadBytes bounds the multipart body before bucket limits apply.
const maxUploadBytes = 12 << 20

// UploadHandler serves the admin upload endpoint and the public file reads.
type UploadHandler struct {
	store *storage.Store
}

func NewUploadHandler(store *storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// HandleUpload handles POST /v1/admin/uploads/{bucket} with a multipart
// "file" field.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	path, err := h.store.Save(bucket, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnknownBucket):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, storage.ErrDisallowedMIME), errors.Is(err, storage.ErrInvalidFilename):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrFileTooLarge):
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]string{
		"path": path,
		"url":  "/uploads/" + path,
	})
}

// HandleServe handles GET /uploads/{bucket}/{filename} (public read).
func (h *UploadHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Open(chi.URLParam(r, "bucket"), chi.URLParam(r, "filename"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnknownBucket), errors.Is(err, storage.ErrInvalidFilename):
			httputil.RespondError(w, http.StatusNotFound, "File not found")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to open file")
		}
		return
	}
	http.ServeFile(w, r, path)
}
