package profiles

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Profile
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}}
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) GetByIDs(ctx context.Context, ids []string) (map[string]Profile, error) {
	out := map[string]Profile{}
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NormalizesAndStamps(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "user-1", "  Anna ", " Anna@Example.com ")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.Name != "Anna" || p.Email != "anna@example.com" {
		t.Fatalf("expected normalized fields, got %+v", p)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected timestamps set to now")
	}
}

func TestService_GetByID_MapsNotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_WaitVisible_ReturnsOnceCreated(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	// el perfil aparece recién después de un rato (réplica que alcanza)
	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = svc.Create(context.Background(), "user-1", "Anna", "anna@example.com")
	}()

	p, err := svc.WaitVisible(context.Background(), "user-1", time.Second, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitVisible error: %v", err)
	}
	if p.ID != "user-1" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestService_WaitVisible_TimesOut(t *testing.T) {
	svc := NewService(newTestRepo())

	start := time.Now()
	_, err := svc.WaitVisible(context.Background(), "ghost", 30*time.Millisecond, 5*time.Millisecond)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on timeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout took too long")
	}
}

func TestService_WaitVisible_ContextCancel(t *testing.T) {
	svc := NewService(newTestRepo())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.WaitVisible(ctx, "ghost", time.Minute, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
