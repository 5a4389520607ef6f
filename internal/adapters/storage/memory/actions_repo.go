package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-log/internal/domain/actions"
)

type actionRepo struct {
	mu   sync.RWMutex
	byID map[string]actions.Action
}

func NewActionRepo() actions.Repository {
	return &actionRepo{
		byID: make(map[string]actions.Action),
	}
}

func (r *actionRepo) Create(ctx context.Context, a actions.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("action id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("action already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *actionRepo) GetByID(ctx context.Context, id string) (actions.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return actions.Action{}, ErrNotFound
	}
	return a, nil
}

func (r *actionRepo) ListSince(ctx context.Context, petID string, since time.Time) ([]actions.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]actions.Action, 0)
	for _, a := range r.byID {
		if a.PetID != petID {
			continue
		}
		if a.Timestamp.Before(since) {
			continue
		}
		out = append(out, a)
	}

	// timestamp desc, desempate por created_at desc y luego id para que
	// dos lecturas seguidas devuelvan exactamente el mismo orden
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *actionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *actionRepo) DetachTemplate(ctx context.Context, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.TemplateID != nil && *a.TemplateID == templateID {
			a.TemplateID = nil
			r.byID[id] = a
		}
	}
	return nil
}

func (r *actionRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}
