package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// OwnerEnroller da de alta la membresía owner al crear la mascota.
// Interfaz chica para no importar familymembers (evita ciclos).
type OwnerEnroller interface {
	EnrollOwner(ctx context.Context, petID, userID string) error
}

// Purger limpia datos dependientes de una mascota al borrarla
// (membresías, templates, acciones).
type Purger interface {
	PurgePet(ctx context.Context, petID string) error
}

type Service struct {
	repo     Repository
	enroller OwnerEnroller
	purgers  []Purger
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// SetOwnerEnroller y AddPurger se llaman en el wiring del router.
func (s *Service) SetOwnerEnroller(e OwnerEnroller) { s.enroller = e }
func (s *Service) AddPurger(p Purger)               { s.purgers = append(s.purgers, p) }

type CreateInput struct {
	Name      string
	AvatarURL string
}

// Create registra la mascota y su membresía owner. Siempre juntas:
// el dueño queda representado como familiar con rol owner.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: strings.TrimSpace(ownerUserID),
		Name:        strings.TrimSpace(in.Name),
		AvatarURL:   strings.TrimSpace(in.AvatarURL),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}

	if s.enroller != nil {
		if err := s.enroller.EnrollOwner(ctx, p.ID, p.OwnerUserID); err != nil {
			return Pet{}, err
		}
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Delete borra la mascota y todo lo que cuelga de ella. Sólo el owner.
func (s *Service) Delete(ctx context.Context, petID, byUserID string) error {
	petID = strings.TrimSpace(petID)
	byUserID = strings.TrimSpace(byUserID)
	if petID == "" || byUserID == "" {
		return ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return ErrNotFound
	}
	if p.OwnerUserID != byUserID {
		return ErrForbidden
	}

	for _, pg := range s.purgers {
		if err := pg.PurgePet(ctx, petID); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, petID)
}
