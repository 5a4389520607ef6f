// Package accounts orquesta el alta y la sesión de usuarios: habla con el
// proveedor de identidad y mantiene la fila de perfil propia.
package accounts

import (
	"context"
	"strings"
	"time"

	"pet-care-log/internal/domain/familymembers"
	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
)

type Service struct {
	provider auth.Provider
	profiles *profiles.Service
	members  *familymembers.Service
	log      logger.Logger

	// Contrato de visibilidad eventual post-registro.
	visTimeout  time.Duration
	visInterval time.Duration
}

type Options struct {
	Provider auth.Provider
	Profiles *profiles.Service
	Members  *familymembers.Service
	Log      logger.Logger

	VisibilityTimeout  time.Duration
	VisibilityInterval time.Duration
}

func NewService(opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		provider:    opts.Provider,
		profiles:    opts.Profiles,
		members:     opts.Members,
		log:         log,
		visTimeout:  opts.VisibilityTimeout,
		visInterval: opts.VisibilityInterval,
	}
}

// SignUp registra en el provider, crea la fila de perfil, reclama las
// invitaciones pendientes del email y espera a que el perfil sea visible.
// Si el perfil no pudo crearse se loguea y el alta igual se considera
// exitosa; el perfil se puede completar después.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (auth.Session, error) {
	sess, err := s.provider.SignUp(ctx, email, password, name)
	if err != nil {
		return auth.Session{}, err
	}

	if _, err := s.profiles.Create(ctx, sess.Claims.UserID, name, email); err != nil {
		s.log.Error("create profile failed", map[string]any{
			"user_id": sess.Claims.UserID,
			"err":     err.Error(),
		})
	}

	if n, err := s.members.ClaimInvites(ctx, sess.Claims.UserID, email); err != nil {
		s.log.Warn("claim invites failed", map[string]any{
			"user_id": sess.Claims.UserID,
			"err":     err.Error(),
		})
	} else if n > 0 {
		s.log.Info("claimed pending invites", map[string]any{
			"user_id": sess.Claims.UserID,
			"count":   n,
		})
	}

	if _, err := s.profiles.WaitVisible(ctx, sess.Claims.UserID, s.visTimeout, s.visInterval); err != nil {
		s.log.Warn("profile not visible after signup", map[string]any{
			"user_id": sess.Claims.UserID,
			"err":     err.Error(),
		})
	}

	return sess, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	return s.provider.SignIn(ctx, email, password)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.provider.SignOut(ctx, token)
}

// Me devuelve claims más la fila de perfil (si existe). La ausencia de
// perfil no es error: deriva la fase awaiting-confirmation en la sesión.
func (s *Service) Me(ctx context.Context, claims auth.Claims) (auth.Claims, *profiles.Profile) {
	p, err := s.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		return claims, nil
	}
	return claims, &p
}

// UpdateName actualiza la metadata en el provider y el perfil propio.
func (s *Service) UpdateName(ctx context.Context, token, userID, name string) (profiles.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return profiles.Profile{}, profiles.ErrInvalidInput
	}

	if strings.TrimSpace(token) != "" {
		if _, err := s.provider.UpdateMetadata(ctx, token, name); err != nil {
			// La metadata del provider es secundaria al perfil propio.
			s.log.Warn("update provider metadata failed", map[string]any{
				"user_id": userID,
				"err":     err.Error(),
			})
		}
	}

	return s.profiles.Rename(ctx, userID, name)
}
