package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/jwt"
)

type mockUserRepo struct {
	users map[string]domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if _, ok := m.users[u.Email]; ok {
		return domain.User{}, domain.ConflictError{Reason: "email already registered"}
	}
	u.ID = "user-" + u.Email
	m.users[u.Email] = u
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func TestUserUsecaseSignupLogin(t *testing.T) {
	repo := &mockUserRepo{users: map[string]domain.User{}}
	config := domain.Config{TokenSecret: "secret", TokenTTL: time.Hour}
	uc := NewUserUsecase(repo, config)
	ctx := context.Background()

	user, err := uc.Signup(ctx, "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.PasswordHash == "hunter2" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}

	if _, err := uc.Signup(ctx, "alice@example.com", "again"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate signup, got %v", err)
	}

	session, err := uc.Login(ctx, "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected user id %s got %s", user.ID, session.UserID)
	}

	_, claims, err := jwt.Validate(session.Token, "secret")
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected claim %s got %s", user.ID, claims.UserID)
	}
}

func TestUserUsecaseLoginRejects(t *testing.T) {
	repo := &mockUserRepo{users: map[string]domain.User{}}
	uc := NewUserUsecase(repo, domain.Config{TokenSecret: "secret", TokenTTL: time.Hour})
	ctx := context.Background()

	if _, err := uc.Signup(ctx, "bob@example.com", "correct"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := uc.Login(ctx, "bob@example.com", "wrong"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for wrong password, got %v", err)
	}
	if _, err := uc.Login(ctx, "nobody@example.com", "correct"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for unknown user, got %v", err)
	}
}

func TestUserUsecaseSignupValidation(t *testing.T) {
	uc := NewUserUsecase(&mockUserRepo{users: map[string]domain.User{}}, domain.Config{})

	if _, err := uc.Signup(context.Background(), "not-an-email", "pw"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Signup(context.Background(), "carol@example.com", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
