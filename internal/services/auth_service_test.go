package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"agencydesk-backend/internal/auth"
	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

type authMockStore struct {
	store.Store

	users map[string]*models.User

	createUser func(ctx context.Context, user *models.User) error
	deleteUser func(ctx context.Context, id uuid.UUID) error
}

func (m *authMockStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *authMockStore) CreateUser(ctx context.Context, user *models.User) error {
	if m.createUser != nil {
		return m.createUser(ctx, user)
	}
	m.users[user.Email] = user
	return nil
}

func (m *authMockStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.deleteUser(ctx, id)
}

func authTestService(ms *authMockStore) *AuthService {
	return NewAuthService(ms, &config.Config{
		JWTSecret:       "test-secret",
		TokenExpiration: time.Hour,
	})
}

func seedUser(t *testing.T, ms *authMockStore, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &models.User{
		ID:             uuid.New(),
		Email:          email,
		DisplayName:    "Test Operator",
		Role:           models.RoleAgent,
		HashedPassword: hash,
		IsActive:       active,
	}
	ms.users[email] = u
	return u
}

func TestLogin(t *testing.T) {
	ms := &authMockStore{users: make(map[string]*models.User)}
	u := seedUser(t, ms, "agent@agency.id", "correct-horse", true)
	svc := authTestService(ms)

	token, user, err := svc.Login(context.Background(), "Agent@Agency.ID", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != u.ID {
		t.Errorf("user ID = %s, want %s", user.ID, u.ID)
	}

	claims, err := auth.ParseAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != models.RoleAgent {
		t.Errorf("claims = %s/%s, want %s/agent", claims.UserID, claims.Role, u.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	ms := &authMockStore{users: make(map[string]*models.User)}
	seedUser(t, ms, "agent@agency.id", "correct-horse", true)
	seedUser(t, ms, "gone@agency.id", "whatever", false)
	svc := authTestService(ms)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "unknown user", email: "nobody@agency.id", password: "x", wantErr: ErrInvalidCredentials},
		{name: "wrong password", email: "agent@agency.id", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "empty password", email: "agent@agency.id", password: "", wantErr: ErrInvalidCredentials},
		{name: "disabled account", email: "gone@agency.id", password: "whatever", wantErr: ErrUserDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	ms := &authMockStore{users: make(map[string]*models.User)}
	svc := authTestService(ms)

	_, err := svc.CreateUser(context.Background(), models.RoleAgent, models.CreateUserRequest{
		Email: "new@agency.id", DisplayName: "New", Role: models.RoleAgent, Password: "pw",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestCreateUser(t *testing.T) {
	ms := &authMockStore{users: make(map[string]*models.User)}
	svc := authTestService(ms)

	user, err := svc.CreateUser(context.Background(), models.RoleAdmin, models.CreateUserRequest{
		Email:       " New@Agency.ID ",
		DisplayName: "New Agent",
		Role:        models.RoleAgent,
		Password:    "pw-123456",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "new@agency.id" {
		t.Errorf("email = %q, want lowercased/trimmed", user.Email)
	}
	if !user.IsActive {
		t.Error("new users must start active")
	}
	if user.HashedPassword == "pw-123456" {
		t.Error("password stored unhashed")
	}

	_, err = svc.CreateUser(context.Background(), models.RoleAdmin, models.CreateUserRequest{
		Email: "new@agency.id", DisplayName: "Dup", Role: models.RoleAgent, Password: "pw",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("duplicate email error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := authTestService(&authMockStore{users: make(map[string]*models.User)})

	tests := []struct {
		name string
		req  models.CreateUserRequest
	}{
		{name: "missing email", req: models.CreateUserRequest{DisplayName: "X", Role: models.RoleAgent, Password: "pw"}},
		{name: "missing password", req: models.CreateUserRequest{Email: "x@y.id", DisplayName: "X", Role: models.RoleAgent}},
		{name: "bad role", req: models.CreateUserRequest{Email: "x@y.id", DisplayName: "X", Role: "superuser", Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(context.Background(), models.RoleAdmin, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	ms := &authMockStore{
		users: make(map[string]*models.User),
		deleteUser: func(_ context.Context, _ uuid.UUID) error {
			t.Fatal("self-delete must not reach the store")
			return nil
		},
	}
	svc := authTestService(ms)

	id := uuid.New()
	if err := svc.DeleteUser(context.Background(), models.RoleAdmin, id, id); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
