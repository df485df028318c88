package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainauth "rentradar/internal/domain/auth"
	domainuser "rentradar/internal/domain/user"
	"rentradar/internal/infra/security"
	"rentradar/internal/infra/storage/memory"
)

func newTestService() *Service {
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}
}

func TestRegisterAndResolve(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{Email: "Ana@Example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Fatal("register must issue a session token")
	}
	if result.User.Email != "ana@example.com" {
		t.Errorf("email = %q; want normalized lowercase", result.User.Email)
	}
	if result.User.Preferences.Language != domainuser.DefaultLanguage {
		t.Errorf("language = %q; want default", result.User.Preferences.Language)
	}

	resolved, err := svc.ResolveToken(ctx, result.Token)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.User.UID != result.User.UID {
		t.Errorf("resolved user %q; want %q", resolved.User.UID, result.User.UID)
	}
}

func TestRegisterValidations(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{Email: "", Password: "secret-pass"}); !errors.Is(err, domainuser.ErrEmailRequired) {
		t.Errorf("err = %v; want ErrEmailRequired", err)
	}
	if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("err = %v; want ErrPasswordTooShort", err)
	}

	if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.com", Password: "secret-pass"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, RegisterParams{Email: "A@B.com", Password: "secret-pass"}); !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Errorf("err = %v; want ErrEmailAlreadyUsed", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{Email: "ana@example.com", Password: "secret-pass"}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Login(ctx, LoginParams{Email: "ana@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Error("login must issue a session token")
	}

	if _, err := svc.Login(ctx, LoginParams{Email: "ana@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v; want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginParams{Email: "ghost@example.com", Password: "secret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterParams{Email: "ana@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveToken(ctx, result.Token); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Errorf("err = %v; want ErrSessionNotFound", err)
	}
}
