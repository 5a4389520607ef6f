package actions

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

// Add registra la acción con timestamp "ahora". Que el template exista y
// pertenezca a la mascota lo valida el caller (handler o sesión), igual
// que la pertenencia de la mascota.
func (s *Service) Add(ctx context.Context, petID, userID string, templateID *string) (Action, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return Action{}, ErrInvalidInput
	}
	if templateID != nil && strings.TrimSpace(*templateID) == "" {
		return Action{}, ErrInvalidInput
	}

	now := s.now()
	a := Action{
		ID:         uuid.NewString(),
		PetID:      petID,
		UserID:     userID,
		TemplateID: templateID,
		Timestamp:  now,
		CreatedAt:  now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Action{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Action, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Action{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListToday: acciones desde la medianoche local del observador, más
// recientes primero. "Hoy" se recalcula en cada llamada; no hay
// normalización de zona horaria entre familiares.
func (s *Service) ListToday(ctx context.Context, petID string, loc *time.Location) ([]Action, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	if loc == nil {
		loc = time.Local
	}

	return s.repo.ListSince(ctx, petID, midnight(s.now(), loc))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// DetachTemplate implementa templates.ActionDetacher.
func (s *Service) DetachTemplate(ctx context.Context, templateID string) error {
	return s.repo.DetachTemplate(ctx, templateID)
}

// PurgePet implementa pets.Purger.
func (s *Service) PurgePet(ctx context.Context, petID string) error {
	return s.repo.DeleteByPet(ctx, petID)
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
