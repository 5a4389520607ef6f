package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-log/internal/adapters/auth/local"
	mem "pet-care-log/internal/adapters/storage/memory"
	"pet-care-log/internal/domain/familymembers"
	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/ports/auth"
)

func newTestService(provider auth.Provider) (*Service, *profiles.Service, *familymembers.Service) {
	profilesSvc := profiles.NewService(mem.NewProfileRepo())
	membersSvc := familymembers.NewService(mem.NewFamilyMemberRepo())

	svc := NewService(Options{
		Provider:           provider,
		Profiles:           profilesSvc,
		Members:            membersSvc,
		VisibilityTimeout:  time.Second,
		VisibilityInterval: time.Millisecond,
	})
	return svc, profilesSvc, membersSvc
}

func TestService_SignUp_CreatesProfileAndClaimsInvites(t *testing.T) {
	ctx := context.Background()
	svc, profilesSvc, membersSvc := newTestService(local.New())

	// invitación pendiente previa al registro
	if _, err := membersSvc.Invite(ctx, familymembers.InviteInput{
		PetID:     "pet-1",
		InviterID: "owner-1",
		Email:     "anna@example.com",
	}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	sess, err := svc.SignUp(ctx, "anna@example.com", "secret123", "Anna")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if sess.Token == "" || sess.Claims.UserID == "" {
		t.Fatalf("expected session with token and user id, got %+v", sess)
	}

	// perfil ya visible (el alta espera a que lo sea)
	p, err := profilesSvc.GetByID(ctx, sess.Claims.UserID)
	if err != nil {
		t.Fatalf("profile not visible after signup: %v", err)
	}
	if p.Name != "Anna" || p.Email != "anna@example.com" {
		t.Fatalf("unexpected profile %+v", p)
	}

	// la invitación quedó reclamada
	active, err := membersSvc.IsActiveMember(ctx, "pet-1", sess.Claims.UserID)
	if err != nil || !active {
		t.Fatalf("expected claimed membership, active=%v err=%v", active, err)
	}
}

func TestService_SignUp_EmailTaken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(local.New())

	if _, err := svc.SignUp(ctx, "anna@example.com", "secret123", "Anna"); err != nil {
		t.Fatalf("SignUp #1 error: %v", err)
	}
	_, err := svc.SignUp(ctx, "Anna@Example.com", "secret123", "Anna 2")
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_SignIn_And_Me(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(local.New())

	if _, err := svc.SignUp(ctx, "anna@example.com", "secret123", "Anna"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	sess, err := svc.SignIn(ctx, "anna@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn error: %v", err)
	}

	claims, profile := svc.Me(ctx, sess.Claims)
	if claims.UserID != sess.Claims.UserID {
		t.Fatalf("claims mismatch")
	}
	if profile == nil || profile.Name != "Anna" {
		t.Fatalf("expected profile in Me, got %+v", profile)
	}

	if _, err := svc.SignIn(ctx, "anna@example.com", "wrong-pass"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_UpdateName_RenamesProfile(t *testing.T) {
	ctx := context.Background()
	svc, profilesSvc, _ := newTestService(local.New())

	sess, err := svc.SignUp(ctx, "anna@example.com", "secret123", "Anna")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	p, err := svc.UpdateName(ctx, sess.Token, sess.Claims.UserID, "Anna K")
	if err != nil {
		t.Fatalf("UpdateName error: %v", err)
	}
	if p.Name != "Anna K" {
		t.Fatalf("expected renamed profile, got %q", p.Name)
	}

	got, err := profilesSvc.GetByID(ctx, sess.Claims.UserID)
	if err != nil || got.Name != "Anna K" {
		t.Fatalf("rename not persisted: %+v err=%v", got, err)
	}

	if _, err := svc.UpdateName(ctx, sess.Token, sess.Claims.UserID, "  "); !errors.Is(err, profiles.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}
