package profiles

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create registra la fila de perfil para un usuario recién dado de alta.
// El id viene del provider de identidad, no se genera acá.
func (s *Service) Create(ctx context.Context, id, name, email string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()
	p := Profile{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// Los adapters tienen su propio not-found; de cara al dominio
		// un perfil irresoluble es un perfil que no está.
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) GetByIDs(ctx context.Context, ids []string) (map[string]Profile, error) {
	if len(ids) == 0 {
		return map[string]Profile{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

// Rename cambia el display name. Sólo el dueño del perfil.
func (s *Service) Rename(ctx context.Context, id, name string) (Profile, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, ErrNotFound
	}

	p.Name = name
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// WaitVisible espera a que el perfil sea resoluble por id, con polling
// acotado. Es el contrato explícito de visibilidad eventual post-registro
// (en vez de un delay mágico fijo).
func (s *Service) WaitVisible(ctx context.Context, id string, timeout, interval time.Duration) (Profile, error) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	deadline := s.now().Add(timeout)
	for {
		p, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return p, nil
		}

		if s.now().After(deadline) {
			return Profile{}, ErrNotFound
		}

		select {
		case <-ctx.Done():
			return Profile{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}
