package familymembers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAlreadyInvited = errors.New("already invited")
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

// EnrollOwner crea la membresía owner al registrar una mascota.
// Así el dueño siempre está representado en family_members (antes había
// caminos de creación que no lo garantizaban).
func (s *Service) EnrollOwner(ctx context.Context, petID, userID string) error {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return ErrInvalidInput
	}

	now := s.now()
	uid := userID
	return s.repo.Create(ctx, FamilyMember{
		ID:        uuid.NewString(),
		PetID:     petID,
		UserID:    &uid,
		Role:      RoleOwner,
		Status:    StatusActive,
		InvitedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

type InviteInput struct {
	PetID        string
	InviterID    string
	InviterEmail string
	Email        string
}

// Invite crea una membresía pending por email. El mismo correo no puede
// invitarse dos veces a la misma mascota, ni uno invitarse a sí mismo.
func (s *Service) Invite(ctx context.Context, in InviteInput) (FamilyMember, error) {
	petID := strings.TrimSpace(in.PetID)
	inviterID := strings.TrimSpace(in.InviterID)
	email := normalizeEmail(in.Email)

	if petID == "" || inviterID == "" || email == "" {
		return FamilyMember{}, ErrInvalidInput
	}
	if email == normalizeEmail(in.InviterEmail) {
		return FamilyMember{}, ErrInvalidInput
	}

	existing, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return FamilyMember{}, err
	}
	for _, m := range existing {
		if normalizeEmail(m.InvitedEmail) == email {
			return FamilyMember{}, ErrAlreadyInvited
		}
	}

	now := s.now()
	m := FamilyMember{
		ID:           uuid.NewString(),
		PetID:        petID,
		UserID:       nil,
		Role:         RoleMember,
		Status:       StatusPending,
		InvitedBy:    inviterID,
		InvitedEmail: email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return FamilyMember{}, err
	}
	return m, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]FamilyMember, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID)
}

// ClaimInvites pasa a active las invitaciones pending que matchean el
// email del usuario recién registrado, vinculándolas a su id.
// Devuelve cuántas reclamó.
func (s *Service) ClaimInvites(ctx context.Context, userID, email string) (int, error) {
	userID = strings.TrimSpace(userID)
	email = normalizeEmail(email)
	if userID == "" || email == "" {
		return 0, ErrInvalidInput
	}

	pending, err := s.repo.ListPendingByEmail(ctx, email)
	if err != nil {
		return 0, err
	}

	now := s.now()
	claimed := 0
	for _, m := range pending {
		uid := userID
		m.UserID = &uid
		m.Status = StatusActive
		m.UpdatedAt = now

		if err := s.repo.Update(ctx, m); err != nil {
			return claimed, err
		}
		claimed++
	}
	return claimed, nil
}

// Remove borra una membresía. Puede el owner de la mascota, o el propio
// miembro (irse de la familia). La fila owner no se puede borrar.
func (s *Service) Remove(ctx context.Context, memberID, byUserID string, petOwnerID string) error {
	memberID = strings.TrimSpace(memberID)
	byUserID = strings.TrimSpace(byUserID)
	if memberID == "" || byUserID == "" {
		return ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return ErrNotFound
	}
	if m.Role == RoleOwner {
		return ErrForbidden
	}

	isOwner := byUserID == petOwnerID
	isSelf := m.UserID != nil && *m.UserID == byUserID
	if !isOwner && !isSelf {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, memberID)
}

// ListActivePetIDs: ids de mascotas compartidas activamente con el usuario.
func (s *Service) ListActivePetIDs(ctx context.Context, userID string) ([]string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, m := range items {
		if _, ok := seen[m.PetID]; ok {
			continue
		}
		seen[m.PetID] = struct{}{}
		out = append(out, m.PetID)
	}
	return out, nil
}

// IsActiveMember: true si el usuario tiene membresía activa sobre la
// mascota. El owner se chequea aparte (owner bypass en handlers).
func (s *Service) IsActiveMember(ctx context.Context, petID, userID string) (bool, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return false, nil
	}

	items, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, m := range items {
		if m.PetID == petID {
			return true, nil
		}
	}
	return false, nil
}

// PurgePet implementa pets.Purger.
func (s *Service) PurgePet(ctx context.Context, petID string) error {
	return s.repo.DeleteByPet(ctx, petID)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
