package pets

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

type recordingEnroller struct {
	calls [][2]string
}

func (e *recordingEnroller) EnrollOwner(ctx context.Context, petID, userID string) error {
	e.calls = append(e.calls, [2]string{petID, userID})
	return nil
}

type recordingPurger struct {
	purged []string
}

func (p *recordingPurger) PurgePet(ctx context.Context, petID string) error {
	p.purged = append(p.purged, petID)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_EnrollsOwner(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	enroller := &recordingEnroller{}
	svc.SetOwnerEnroller(enroller)

	p, err := svc.Create(context.Background(), "maria", CreateInput{Name: "  Barsik "})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.Name != "Barsik" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if len(enroller.calls) != 1 || enroller.calls[0] != [2]string{p.ID, "maria"} {
		t.Fatalf("expected owner enrollment, got %v", enroller.calls)
	}
}

func TestService_Create_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "maria", CreateInput{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Delete_OwnerOnly_AndPurges(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	purger := &recordingPurger{}
	svc.AddPurger(purger)

	p, err := svc.Create(context.Background(), "maria", CreateInput{Name: "Barsik"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID, "anna"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if len(purger.purged) != 0 {
		t.Fatalf("purger must not run on forbidden delete")
	}

	if err := svc.Delete(context.Background(), p.ID, "maria"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(purger.purged) != 1 || purger.purged[0] != p.ID {
		t.Fatalf("expected purge of %s, got %v", p.ID, purger.purged)
	}
	if _, err := repo.GetByID(context.Background(), p.ID); err == nil {
		t.Fatalf("expected pet gone from repo")
	}

	if err := svc.Delete(context.Background(), p.ID, "maria"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
