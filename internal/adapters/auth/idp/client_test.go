package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-care-log/internal/ports/auth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c, ts
}

func sessionJSON(w http.ResponseWriter, token, id, email, name string, confirmed bool) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": token,
		"user": map[string]any{
			"id":              id,
			"email":           email,
			"name":            name,
			"email_confirmed": confirmed,
		},
	})
}

func TestClient_SignUp_SendsAPIKeyAndParsesSession(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		sessionJSON(w, "tok-1", "user-1", "anna@example.com", "Anna", false)
	})

	sess, err := c.SignUp(context.Background(), "anna@example.com", "secret123", "Anna")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if gotPath != "/v1/auth/signup" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotBody["email"] != "anna@example.com" || gotBody["name"] != "Anna" {
		t.Fatalf("unexpected payload %v", gotBody)
	}
	if sess.Token != "tok-1" || sess.Claims.UserID != "user-1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if sess.Claims.EmailConfirmed {
		t.Fatalf("expected unconfirmed claims")
	}
}

func TestClient_SignUp_ConflictMapsEmailTaken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "email exists", http.StatusConflict)
	})

	_, err := c.SignUp(context.Background(), "anna@example.com", "secret123", "Anna")
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestClient_Verify_BearerAndErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		sessionJSON(w, "tok-1", "user-1", "anna@example.com", "Anna", true)
	})

	claims, err := c.Verify(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-1" || !claims.EmailConfirmed {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := c.Verify(context.Background(), "bad-token"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := c.Verify(context.Background(), "  "); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
}

func TestClient_UpstreamErrorIsNotAuthError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.SignIn(context.Background(), "anna@example.com", "secret123")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("5xx must not map to credentials error")
	}
}
