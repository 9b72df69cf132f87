package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"agencydesk-backend/internal/auth"
	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

// Custom errors for auth and user management
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
	ErrValidation         = errors.New("input validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("operation not permitted for this role")
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
}

func NewAuthService(s store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
	}
}

// Login verifies operator credentials and returns an access token and user
// info. There is no public signup; accounts are created by an admin.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials // Don't reveal if user exists or password is wrong
		}
		log.Printf("[Auth] Error retrieving user %s during login: %v", email, err)
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !user.IsActive {
		return "", nil, ErrUserDisabled
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.Role, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		log.Printf("[Auth] Error generating JWT for user %s (ID: %s): %v", email, user.ID, err)
		return "", nil, ErrCreatingToken
	}

	log.Printf("[Auth] Logged in user %s (ID: %s, Role: %s)", email, user.ID, user.Role)
	return token, user, nil
}

// CreateUser creates an operator account. Admin only; enforced by the
// caller's middleware, re-checked here against the acting role.
func (s *AuthService) CreateUser(ctx context.Context, actingRole models.UserRole, req models.CreateUserRequest) (*models.User, error) {
	if actingRole != models.RoleAdmin {
		return nil, ErrForbidden
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" || req.DisplayName == "" {
		return nil, fmt.Errorf("%w: email, display_name and password are required", ErrValidation)
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleAgent {
		return nil, fmt.Errorf("%w: role must be admin or agent", ErrValidation)
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[Auth] Error checking user existence for %s: %v", email, err)
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("[Auth] Error hashing password for %s: %v", email, err)
		return nil, ErrHashingPassword
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		DisplayName:    strings.TrimSpace(req.DisplayName),
		Role:           req.Role,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		log.Printf("[Auth] Error creating user %s: %v", email, err)
		return nil, fmt.Errorf("creating user failed: %w", err)
	}

	log.Printf("[Auth] Created user %s (ID: %s, Role: %s)", email, user.ID, user.Role)
	return user, nil
}

// UpdateUser applies a partial update to an operator account.
func (s *AuthService) UpdateUser(ctx context.Context, actingRole models.UserRole, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	if actingRole != models.RoleAdmin {
		return nil, ErrForbidden
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display_name cannot be empty", ErrValidation)
		}
		user.DisplayName = name
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleAgent {
			return nil, fmt.Errorf("%w: role must be admin or agent", ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", ErrValidation)
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, ErrHashingPassword
		}
		user.HashedPassword = hashed
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user failed: %w", err)
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context, actingRole models.UserRole) ([]models.User, error) {
	if actingRole != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.store.ListUsers(ctx)
}

// DeleteUser removes an operator account. An admin cannot delete itself;
// that path disables the account instead to avoid locking the panel out.
func (s *AuthService) DeleteUser(ctx context.Context, actingRole models.UserRole, actingUserID, id uuid.UUID) error {
	if actingRole != models.RoleAdmin {
		return ErrForbidden
	}
	if actingUserID == id {
		return fmt.Errorf("%w: cannot delete your own account", ErrValidation)
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting user failed: %w", err)
	}
	return nil
}
