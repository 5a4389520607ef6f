package accounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-care-log/internal/adapters/auth/local"
	"pet-care-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type recordingEvicter struct {
	evicted []string
}

func (e *recordingEvicter) Evict(userID string) {
	e.evicted = append(e.evicted, userID)
}

func TestSignOutHandler_EvictsSessionState(t *testing.T) {
	provider := local.New()
	svc, _, _ := newTestService(provider)
	evicter := &recordingEvicter{}

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(provider))
	RegisterRoutes(r, svc, evicter)

	srv := httptest.NewServer(r)
	defer srv.Close()

	// signup para obtener token y user id reales
	res, err := http.Post(srv.URL+"/auth/signup", "application/json",
		strings.NewReader(`{"email":"maria@example.com","password":"secret1","name":"María"}`))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: %d", res.StatusCode)
	}
	sess, err := provider.SignIn(context.Background(), "maria@example.com", "secret1")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status: %d", res2.StatusCode)
	}

	if len(evicter.evicted) != 1 || evicter.evicted[0] != sess.Claims.UserID {
		t.Fatalf("expected eviction of %s, got %v", sess.Claims.UserID, evicter.evicted)
	}

	// sin token no hay eviction
	res3, err := http.Post(srv.URL+"/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("logout sin token: %v", err)
	}
	defer res3.Body.Close()
	if res3.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 sin token, got %d", res3.StatusCode)
	}
	if len(evicter.evicted) != 1 {
		t.Fatalf("expected no extra evictions, got %v", evicter.evicted)
	}
}
