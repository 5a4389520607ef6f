package familymembers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]FamilyMember
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]FamilyMember{}}
}

func (r *testRepo) Create(ctx context.Context, m FamilyMember) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m FamilyMember) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (FamilyMember, error) {
	m, ok := r.byID[id]
	if !ok {
		return FamilyMember{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string) ([]FamilyMember, error) {
	out := make([]FamilyMember, 0)
	for _, m := range r.byID {
		if m.PetID == petID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListActiveByUser(ctx context.Context, userID string) ([]FamilyMember, error) {
	out := make([]FamilyMember, 0)
	for _, m := range r.byID {
		if m.Status != StatusActive {
			continue
		}
		if m.UserID == nil || *m.UserID != userID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *testRepo) ListPendingByEmail(ctx context.Context, email string) ([]FamilyMember, error) {
	out := make([]FamilyMember, 0)
	for _, m := range r.byID {
		if m.Status == StatusPending && strings.EqualFold(m.InvitedEmail, email) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) DeleteByPet(ctx context.Context, petID string) error {
	for id, m := range r.byID {
		if m.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Invite_CreatesPending(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Invite(context.Background(), InviteInput{
		PetID:     "pet-1",
		InviterID: "owner-1",
		Email:     "  Anna@Example.com ",
	})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if m.Status != StatusPending || m.Role != RoleMember {
		t.Fatalf("expected pending member, got %s/%s", m.Status, m.Role)
	}
	if m.UserID != nil {
		t.Fatalf("expected nil UserID while pending")
	}
	if m.InvitedEmail != "anna@example.com" {
		t.Fatalf("expected normalized email, got %q", m.InvitedEmail)
	}
	if m.CreatedAt != now || m.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Invite_RejectsDuplicateEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Invite(context.Background(), InviteInput{
		PetID:     "pet-1",
		InviterID: "owner-1",
		Email:     "anna@example.com",
	})
	if err != nil {
		t.Fatalf("Invite #1 error: %v", err)
	}

	// mismo email con otra capitalización
	_, err = svc.Invite(context.Background(), InviteInput{
		PetID:     "pet-1",
		InviterID: "owner-1",
		Email:     "ANNA@example.com",
	})
	if !errors.Is(err, ErrAlreadyInvited) {
		t.Fatalf("expected ErrAlreadyInvited, got %v", err)
	}

	// en otra mascota sí se puede
	_, err = svc.Invite(context.Background(), InviteInput{
		PetID:     "pet-2",
		InviterID: "owner-1",
		Email:     "anna@example.com",
	})
	if err != nil {
		t.Fatalf("Invite on other pet error: %v", err)
	}
}

func TestService_Invite_RejectsOwnEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Invite(context.Background(), InviteInput{
		PetID:        "pet-1",
		InviterID:    "owner-1",
		InviterEmail: "maria@example.com",
		Email:        "  Maria@Example.com ",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-invite, got %v", err)
	}
	if items, _ := repo.ListByPet(context.Background(), "pet-1"); len(items) != 0 {
		t.Fatalf("expected no rows after rejected self-invite, got %d", len(items))
	}

	// a otra persona sí
	_, err = svc.Invite(context.Background(), InviteInput{
		PetID:        "pet-1",
		InviterID:    "owner-1",
		InviterEmail: "maria@example.com",
		Email:        "anna@example.com",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
}

func TestService_ClaimInvites_ActivatesAndLinks(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	for _, petID := range []string{"pet-1", "pet-2"} {
		if _, err := svc.Invite(context.Background(), InviteInput{
			PetID:     petID,
			InviterID: "owner-1",
			Email:     "anna@example.com",
		}); err != nil {
			t.Fatalf("Invite error: %v", err)
		}
	}

	n, err := svc.ClaimInvites(context.Background(), "anna-id", "Anna@Example.com")
	if err != nil {
		t.Fatalf("ClaimInvites error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 claimed invites, got %d", n)
	}

	petIDs, err := svc.ListActivePetIDs(context.Background(), "anna-id")
	if err != nil {
		t.Fatalf("ListActivePetIDs error: %v", err)
	}
	if len(petIDs) != 2 {
		t.Fatalf("expected 2 active pets, got %v", petIDs)
	}

	// re-registro con el mismo email: ya no queda nada pendiente
	n, err = svc.ClaimInvites(context.Background(), "anna-id", "anna@example.com")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 claims on second pass, got %d err=%v", n, err)
	}
}

func TestService_Remove_OwnerRowProtected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if err := svc.EnrollOwner(context.Background(), "pet-1", "owner-1"); err != nil {
		t.Fatalf("EnrollOwner error: %v", err)
	}

	var ownerRow FamilyMember
	for _, m := range repo.byID {
		ownerRow = m
	}
	if ownerRow.Role != RoleOwner || ownerRow.Status != StatusActive {
		t.Fatalf("expected active owner row, got %s/%s", ownerRow.Role, ownerRow.Status)
	}

	err := svc.Remove(context.Background(), ownerRow.ID, "owner-1", "owner-1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden removing owner row, got %v", err)
	}
}

func TestService_Remove_OwnerOrSelf(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, err := svc.Invite(context.Background(), InviteInput{
		PetID:     "pet-1",
		InviterID: "owner-1",
		Email:     "anna@example.com",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
	if _, err := svc.ClaimInvites(context.Background(), "anna-id", "anna@example.com"); err != nil {
		t.Fatalf("ClaimInvites error: %v", err)
	}

	// un tercero no puede
	if err := svc.Remove(context.Background(), m.ID, "other", "owner-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for third party, got %v", err)
	}

	// la propia miembro sí (irse de la familia)
	if err := svc.Remove(context.Background(), m.ID, "anna-id", "owner-1"); err != nil {
		t.Fatalf("self remove error: %v", err)
	}

	active, err := svc.IsActiveMember(context.Background(), "pet-1", "anna-id")
	if err != nil || active {
		t.Fatalf("expected membership gone, active=%v err=%v", active, err)
	}
}
