// Package idp implementa el cliente del proveedor de identidad hosteado.
// Toda la autenticación (registro, login, tokens) vive en ese servicio;
// acá sólo hablamos su API HTTP.
package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/platform/httpclient"
	"pet-care-log/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("idp client not configured")
	ErrUpstream      = errors.New("idp upstream error")
)

// Config del cliente. BaseURL y APIKey vienen de env en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration

	// Transport opcional (tests).
	Transport http.RoundTripper
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

var _ auth.Provider = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithTransport(strings.TrimSpace(cfg.BaseURL), cfg.Timeout, cfg.Transport)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type sessionResponse struct {
	Token string `json:"access_token"`
	User  struct {
		ID             string `json:"id"`
		Email          string `json:"email"`
		Name           string `json:"name"`
		EmailConfirmed bool   `json:"email_confirmed"`
	} `json:"user"`
}

func (c *Client) SignUp(ctx context.Context, email, password, name string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNotConfigured
	}

	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/auth/signup", c.headers(""), map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &out)
	if err != nil {
		return auth.Session{}, c.mapErr(err, auth.ErrEmailTaken)
	}
	return toSession(out)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNotConfigured
	}

	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/auth/token", c.headers(""), map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return auth.Session{}, c.mapErr(err, auth.ErrInvalidCredentials)
	}
	return toSession(out)
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/auth/logout", c.headers(token), nil, nil)
	if err != nil {
		return c.mapErr(err, auth.ErrUnauthorized)
	}
	return nil
}

func (c *Client) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/v1/auth/user", c.headers(token), nil, &out)
	if err != nil {
		return auth.Claims{}, c.mapErr(err, auth.ErrUnauthorized)
	}

	s, err := toSession(out)
	if err != nil {
		return auth.Claims{}, err
	}
	return s.Claims, nil
}

func (c *Client) UpdateMetadata(ctx context.Context, token, name string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}

	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPatch, "/v1/auth/user", c.headers(token), map[string]string{
		"name": name,
	}, &out)
	if err != nil {
		return auth.Claims{}, c.mapErr(err, auth.ErrUnauthorized)
	}

	s, err := toSession(out)
	if err != nil {
		return auth.Claims{}, err
	}
	return s.Claims, nil
}

func (c *Client) headers(token string) map[string]string {
	h := map[string]string{c.apiKeyHeader: c.apiKey}
	if strings.TrimSpace(token) != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// mapErr traduce errores HTTP del provider a sentinels propios:
// 401/403/409 => authErr (según endpoint), resto => upstream.
func (c *Client) mapErr(err error, authErr error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
			return authErr
		}
		return fmt.Errorf("%w: status=%d", ErrUpstream, he.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func toSession(out sessionResponse) (auth.Session, error) {
	uid := strings.TrimSpace(out.User.ID)
	if uid == "" {
		return auth.Session{}, errors.New("idp response missing user id")
	}
	return auth.Session{
		Token: strings.TrimSpace(out.Token),
		Claims: auth.Claims{
			UserID:         uid,
			Email:          strings.TrimSpace(out.User.Email),
			Name:           strings.TrimSpace(out.User.Name),
			EmailConfirmed: out.User.EmailConfirmed,
		},
	}, nil
}
