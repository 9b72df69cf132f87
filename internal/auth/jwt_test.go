package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"agencydesk-backend/internal/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := NewAccessToken(userID, models.RoleAdmin, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %s, want admin", claims.Role)
	}
	if claims.Subject != userID.String() {
		t.Errorf("Subject = %q, want user id", claims.Subject)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken(uuid.New(), models.RoleAgent, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(token, "wrong-secret"); err == nil {
		t.Fatal("expected an error for a token signed with a different secret")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	token, err := NewAccessToken(uuid.New(), models.RoleAgent, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	_, err = ParseAccessToken(token, "test-secret")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
}

func TestParseAccessTokenGarbage(t *testing.T) {
	if _, err := ParseAccessToken("not.a.token", "test-secret"); err == nil {
		t.Fatal("expected an error for garbage input")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals the plaintext")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("wrong password accepted")
	}
}
