package application

import (
	"context"
	"errors"
	"testing"

	"github.com/lmoreau/auctionhouse/internal/user/domain"
	"github.com/lmoreau/auctionhouse/internal/user/infra/repository/memory"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(), "test-secret")

	result, err := svc.Register(ctx, RegisterDTO{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token on registration")
	}
	if result.User.Role != domain.RoleUser {
		t.Errorf("new users get role %q, want %q", result.User.Role, domain.RoleUser)
	}
	if result.User.PasswordHash == "s3cret" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Error("login returned a different user")
	}

	profile, err := svc.GetProfile(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Username != "alice" {
		t.Errorf("profile username = %q, want alice", profile.Username)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(), "test-secret")

	if _, err := svc.Register(ctx, RegisterDTO{Username: "alice", Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, RegisterDTO{Username: "bob", Email: "a@b.c", Password: "y"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewUserRepository(), "test-secret")

	if _, err := svc.Register(ctx, RegisterDTO{Username: "alice", Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "a@b.c", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@b.c", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}
