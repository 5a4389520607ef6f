package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-log/internal/domain/familymembers"
)

type memberRepo struct {
	mu   sync.RWMutex
	byID map[string]familymembers.FamilyMember
}

func NewFamilyMemberRepo() familymembers.Repository {
	return &memberRepo{
		byID: make(map[string]familymembers.FamilyMember),
	}
}

func (r *memberRepo) Create(ctx context.Context, m familymembers.FamilyMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("member id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("member already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *memberRepo) Update(ctx context.Context, m familymembers.FamilyMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("member id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (familymembers.FamilyMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return familymembers.FamilyMember{}, ErrNotFound
	}
	return m, nil
}

func (r *memberRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memberRepo) ListByPet(ctx context.Context, petID string) ([]familymembers.FamilyMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]familymembers.FamilyMember, 0)
	for _, m := range r.byID {
		if m.PetID == petID {
			out = append(out, m)
		}
	}

	// created_at asc deja la fila del owner primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *memberRepo) ListActiveByUser(ctx context.Context, userID string) ([]familymembers.FamilyMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]familymembers.FamilyMember, 0)
	for _, m := range r.byID {
		if m.Status != familymembers.StatusActive {
			continue
		}
		if m.UserID == nil || *m.UserID != userID {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *memberRepo) ListPendingByEmail(ctx context.Context, email string) ([]familymembers.FamilyMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(email))

	out := make([]familymembers.FamilyMember, 0)
	for _, m := range r.byID {
		if m.Status != familymembers.StatusPending {
			continue
		}
		if strings.ToLower(m.InvitedEmail) != needle {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memberRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.byID {
		if m.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}
