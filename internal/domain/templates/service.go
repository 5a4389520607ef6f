package templates

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
)

// ActionDetacher pone en null el template_id de las acciones que
// referencian un template borrado (en Postgres lo hace el FK con
// SET NULL; el repo in-memory lo necesita explícito).
type ActionDetacher interface {
	DetachTemplate(ctx context.Context, templateID string) error
}

type Service struct {
	repo     Repository
	detacher ActionDetacher
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) SetActionDetacher(d ActionDetacher) { s.detacher = d }

type CreateInput struct {
	Name string
	Icon string
}

func (s *Service) Create(ctx context.Context, petID, createdBy string, in CreateInput) (ActionTemplate, error) {
	petID = strings.TrimSpace(petID)
	createdBy = strings.TrimSpace(createdBy)
	if petID == "" || createdBy == "" {
		return ActionTemplate{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Icon) == "" {
		return ActionTemplate{}, ErrInvalidInput
	}

	t := ActionTemplate{
		ID:        uuid.NewString(),
		PetID:     petID,
		Name:      strings.TrimSpace(in.Name),
		Icon:      strings.TrimSpace(in.Icon),
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return ActionTemplate{}, err
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (ActionTemplate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ActionTemplate{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]ActionTemplate, error) {
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) GetByIDs(ctx context.Context, ids []string) (map[string]ActionTemplate, error) {
	if len(ids) == 0 {
		return map[string]ActionTemplate{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

// Delete borra el template y desengancha las acciones que lo referencian:
// esas acciones sobreviven con template nil (glifo fallback en la UI).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}

	if s.detacher != nil {
		if err := s.detacher.DetachTemplate(ctx, id); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}

// PurgePet implementa pets.Purger.
func (s *Service) PurgePet(ctx context.Context, petID string) error {
	return s.repo.DeleteByPet(ctx, petID)
}
