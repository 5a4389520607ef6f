package local

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pet-care-log/internal/ports/auth"
)

func TestProvider_SignUpVerifySignOut(t *testing.T) {
	ctx := context.Background()
	p := New()

	sess, err := p.SignUp(ctx, "Anna@Example.com ", "secret123", "Anna")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if sess.Claims.Email != "anna@example.com" {
		t.Fatalf("expected normalized email, got %q", sess.Claims.Email)
	}
	if !sess.Claims.EmailConfirmed {
		t.Fatalf("expected confirmed account from New()")
	}

	claims, err := p.Verify(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != sess.Claims.UserID {
		t.Fatalf("claims mismatch after verify")
	}

	if err := p.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	if _, err := p.Verify(ctx, sess.Token); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after signout, got %v", err)
	}

	// idempotente
	if err := p.SignOut(ctx, sess.Token); err != nil {
		t.Fatalf("second SignOut error: %v", err)
	}
}

func TestProvider_SignIn_WrongPassword(t *testing.T) {
	ctx := context.Background()
	p := New()

	if _, err := p.SignUp(ctx, "anna@example.com", "secret123", "Anna"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	if _, err := p.SignIn(ctx, "anna@example.com", "not-it"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := p.SignIn(ctx, "nobody@example.com", "secret123"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	sess, err := p.SignIn(ctx, "ANNA@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected session token")
	}
}

func TestProvider_ShortPasswordRejected(t *testing.T) {
	p := New()
	if _, err := p.SignUp(context.Background(), "anna@example.com", "12345", "Anna"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
}

func TestProvider_Unconfirmed_ThenConfirm(t *testing.T) {
	ctx := context.Background()
	p := NewUnconfirmed()

	sess, err := p.SignUp(ctx, "anna@example.com", "secret123", "Anna")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if sess.Claims.EmailConfirmed {
		t.Fatalf("expected unconfirmed account")
	}

	p.ConfirmEmail("ANNA@example.com")

	claims, err := p.Verify(ctx, sess.Token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !claims.EmailConfirmed {
		t.Fatalf("expected confirmed after ConfirmEmail")
	}
}

func TestArgon2Hash_RoundTrip(t *testing.T) {
	hash, err := hashPassword("secret123")
	if err != nil {
		t.Fatalf("hashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected PHC argon2id hash, got %q", hash)
	}

	ok, err := verifyPassword("secret123", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}

	ok, err = verifyPassword("secret124", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}

	// dos hashes del mismo password no coinciden (salt aleatoria)
	hash2, err := hashPassword("secret123")
	if err != nil {
		t.Fatalf("hashPassword #2 error: %v", err)
	}
	if hash == hash2 {
		t.Fatalf("expected distinct salts")
	}
}
