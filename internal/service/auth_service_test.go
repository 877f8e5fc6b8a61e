package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
)

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	user, token, err := svc.Signup(ctx, "alice@example.com", "hunter22", "Alice")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if token == "" {
		t.Fatal("signup returned empty token")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password stored in plain text")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Fatalf("claims user id = %s, want %s", claims.UserID, user.ID.Hex())
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	if _, _, err := svc.Signup(ctx, "bob@example.com", "pw123456", "Bob"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Signup(ctx, "bob@example.com", "other", "Bobby"); !errors.Is(err, model.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// blindUserRepo never finds users by email, so signups race past the
// pre-check and the duplicate has to be caught at insert time, the way
// the unique index catches it in MongoDB.
type blindUserRepo struct {
	*fakeUserRepo
}

func (r *blindUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func TestSignupDuplicateEmailRace(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(&blindUserRepo{newFakeUserRepo()}, "test-secret")

	if _, _, err := svc.Signup(ctx, "bob@example.com", "pw123456", "Bob"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Signup(ctx, "bob@example.com", "other", "Bobby"); !errors.Is(err, model.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from insert, got %v", err)
	}
}

func TestSignupRequiresFields(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	if _, _, err := svc.Signup(ctx, "", "pw", "name"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret")

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	other := NewAuthService(newFakeUserRepo(), "other-secret")
	_, token, err := other.Signup(context.Background(), "eve@example.com", "pw123456", "Eve")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign-secret token: expected ErrInvalidToken, got %v", err)
	}
}
