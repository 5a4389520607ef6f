package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
)

// AuthVerifier verifica un token y devuelve claims o error.
// Es el subconjunto que necesita el middleware.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Provider es la superficie completa del servicio de identidad hosteado:
// registro, login, logout, usuario actual y metadata.
type Provider interface {
	AuthVerifier

	SignUp(ctx context.Context, email, password, name string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	UpdateMetadata(ctx context.Context, token, name string) (Claims, error)
}
