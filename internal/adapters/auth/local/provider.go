// Package local implementa auth.Provider in-process, para dev y tests.
// Credenciales con hash argon2id y tokens de sesión opacos en memoria.
// En producción se usa el adapter idp contra el servicio hosteado.
package local

import (
	"context"
	"strings"
	"sync"

	"pet-care-log/internal/ports/auth"

	"github.com/google/uuid"
)

type account struct {
	id             string
	email          string
	name           string
	passwordHash   string
	emailConfirmed bool
}

type Provider struct {
	mu       sync.RWMutex
	byEmail  map[string]*account
	sessions map[string]string // token -> userID

	// ConfirmEmails: si true, las cuentas nacen confirmadas.
	// En tests se puede apagar para ejercitar awaiting-confirmation.
	confirmOnSignUp bool
}

var _ auth.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{
		byEmail:         make(map[string]*account),
		sessions:        make(map[string]string),
		confirmOnSignUp: true,
	}
}

// NewUnconfirmed crea el provider con cuentas sin confirmar (tests de
// la fase awaiting-confirmation).
func NewUnconfirmed() *Provider {
	p := New()
	p.confirmOnSignUp = false
	return p
}

func (p *Provider) SignUp(ctx context.Context, email, password, name string) (auth.Session, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || len(password) < 6 {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	hash, err := hashPassword(password)
	if err != nil {
		return auth.Session{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return auth.Session{}, auth.ErrEmailTaken
	}

	a := &account{
		id:             uuid.NewString(),
		email:          email,
		name:           name,
		passwordHash:   hash,
		emailConfirmed: p.confirmOnSignUp,
	}
	p.byEmail[email] = a

	token := uuid.NewString()
	p.sessions[token] = a.id

	return auth.Session{Token: token, Claims: claimsOf(a)}, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	email = normalizeEmail(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.byEmail[email]
	if !ok {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	match, err := verifyPassword(password, a.passwordHash)
	if err != nil || !match {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	token := uuid.NewString()
	p.sessions[token] = a.id

	return auth.Session{Token: token, Claims: claimsOf(a)}, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Idempotente: cerrar una sesión inexistente no es error.
	delete(p.sessions, strings.TrimSpace(token))
	return nil
}

func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	a := p.accountByToken(token)
	if a == nil {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	return claimsOf(a), nil
}

func (p *Provider) UpdateMetadata(ctx context.Context, token, name string) (auth.Claims, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	a := p.accountByToken(token)
	if a == nil {
		return auth.Claims{}, auth.ErrUnauthorized
	}
	a.name = name
	return claimsOf(a), nil
}

// ConfirmEmail marca la cuenta como confirmada (simula el link de correo).
func (p *Provider) ConfirmEmail(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if a, ok := p.byEmail[normalizeEmail(email)]; ok {
		a.emailConfirmed = true
	}
}

// accountByToken requiere lock tomado por el caller.
func (p *Provider) accountByToken(token string) *account {
	uid, ok := p.sessions[strings.TrimSpace(token)]
	if !ok {
		return nil
	}
	for _, a := range p.byEmail {
		if a.id == uid {
			return a
		}
	}
	return nil
}

func claimsOf(a *account) auth.Claims {
	return auth.Claims{
		UserID:         a.id,
		Email:          a.email,
		Name:           a.name,
		EmailConfirmed: a.emailConfirmed,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
