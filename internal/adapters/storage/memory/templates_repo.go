package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-log/internal/domain/templates"
)

type templateRepo struct {
	mu   sync.RWMutex
	byID map[string]templates.ActionTemplate
}

func NewTemplateRepo() templates.Repository {
	return &templateRepo{
		byID: make(map[string]templates.ActionTemplate),
	}
}

func (r *templateRepo) Create(ctx context.Context, t templates.ActionTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("template id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("template already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (templates.ActionTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return templates.ActionTemplate{}, ErrNotFound
	}
	return t, nil
}

func (r *templateRepo) ListByPet(ctx context.Context, petID string) ([]templates.ActionTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]templates.ActionTemplate, 0)
	for _, t := range r.byID {
		if t.PetID == petID {
			out = append(out, t)
		}
	}

	// created_at asc: la grilla respeta el orden de creación
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *templateRepo) GetByIDs(ctx context.Context, ids []string) (map[string]templates.ActionTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]templates.ActionTemplate, len(ids))
	for _, id := range ids {
		if t, ok := r.byID[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *templateRepo) DeleteByPet(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.byID {
		if t.PetID == petID {
			delete(r.byID, id)
		}
	}
	return nil
}
