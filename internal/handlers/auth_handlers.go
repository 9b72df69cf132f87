package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"agencydesk-backend/internal/auth"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/services"
	"agencydesk-backend/pkg/httputil"
)

// AuthService defines the interface expected from the auth service.
// This promotes loose coupling and testability.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	CreateUser(ctx context.Context, actingRole models.UserRole, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, actingRole models.UserRole, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, actingRole models.UserRole) ([]models.User, error)
	DeleteUser(ctx context.Context, actingRole models.UserRole, actingUserID, id uuid.UUID) error
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authSvc AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
	}
}

// HandleLogin handles the POST /v1/auth/login request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Email == "" || req.Password == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login handler failed for email %s: %v", req.Email, err)
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUserDisabled):
			httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Login failed due to an internal error")
		}
		return
	}

	resp := models.AuthResponse{
		AccessToken: token,
		User:        toUserResponse(user),
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleCreateUser handles POST /v1/admin/users.
func (h *AuthHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	role, ok := auth.GetRoleFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.authService.CreateUser(r.Context(), role, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleUpdateUser handles PATCH /v1/admin/users/{userID}.
func (h *AuthHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	role, ok := auth.GetRoleFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}
	id, err := uuidParam(r, "userID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.authService.UpdateUser(r.Context(), role, id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleListUsers handles GET /v1/admin/users.
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	role, ok := auth.GetRoleFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}

	users, err := h.authService.ListUsers(r.Context(), role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}

// HandleDeleteUser handles DELETE /v1/admin/users/{userID}.
func (h *AuthHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	role, ok := auth.GetRoleFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}
	actingID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing auth context")
		return
	}
	id, err := uuidParam(r, "userID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.authService.DeleteUser(r.Context(), role, actingID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toUserResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}
