package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/domain/templates"
	"pet-care-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type allowAll struct{}

func (allowAll) CanAccess(ctx context.Context, petID, userID string) (bool, error) {
	return true, nil
}

type emptyTemplateRepo struct{}

func (emptyTemplateRepo) Create(ctx context.Context, t templates.ActionTemplate) error { return nil }
func (emptyTemplateRepo) GetByID(ctx context.Context, id string) (templates.ActionTemplate, error) {
	return templates.ActionTemplate{}, templates.ErrNotFound
}
func (emptyTemplateRepo) ListByPet(ctx context.Context, petID string) ([]templates.ActionTemplate, error) {
	return nil, nil
}
func (emptyTemplateRepo) GetByIDs(ctx context.Context, ids []string) (map[string]templates.ActionTemplate, error) {
	return map[string]templates.ActionTemplate{}, nil
}
func (emptyTemplateRepo) Delete(ctx context.Context, id string) error         { return nil }
func (emptyTemplateRepo) DeleteByPet(ctx context.Context, petID string) error { return nil }

type emptyProfileRepo struct{}

func (emptyProfileRepo) Create(ctx context.Context, p profiles.Profile) error { return nil }
func (emptyProfileRepo) Update(ctx context.Context, p profiles.Profile) error { return nil }
func (emptyProfileRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	return profiles.Profile{}, errRepoNotFound
}
func (emptyProfileRepo) GetByIDs(ctx context.Context, ids []string) (map[string]profiles.Profile, error) {
	return map[string]profiles.Profile{}, nil
}

// El corte de medianoche sale de la zona inyectada, no de time.Local.
func TestListTodayHandler_UsesConfiguredLocation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	loc := time.FixedZone("UTC+3", 3*60*60)
	// 01:00 UTC = 04:00 en UTC+3; la medianoche de UTC+3 cae en
	// 2026-03-09 21:00 UTC
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rows := []Action{
		// ayer en UTC pero hoy en UTC+3: tiene que entrar
		{ID: "evening", PetID: "pet-1", UserID: "u1", Timestamp: time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC)},
		{ID: "afternoon", PetID: "pet-1", UserID: "u1", Timestamp: time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)},
	}
	for _, a := range rows {
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatalf("create %s: %v", a.ID, err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, svc, templates.NewService(emptyTemplateRepo{}), profiles.NewService(emptyProfileRepo{}), allowAll{}, loc)

	srv := httptest.NewServer(r)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/pets/pet-1/actions/today", nil)
	req.Header.Set("X-Debug-User-ID", "u1")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", res.StatusCode)
	}

	var out []actionResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "evening" {
		t.Fatalf("expected only the evening action, got %+v", out)
	}
}
