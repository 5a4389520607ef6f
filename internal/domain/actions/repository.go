package actions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Action) error
	GetByID(ctx context.Context, id string) (Action, error)
	// ListSince: acciones de la mascota con timestamp >= since,
	// ordenadas por timestamp desc (lo más nuevo primero).
	ListSince(ctx context.Context, petID string, since time.Time) ([]Action, error)
	Delete(ctx context.Context, id string) error

	// DetachTemplate pone template_id en nil donde referencie al template.
	DetachTemplate(ctx context.Context, templateID string) error
	DeleteByPet(ctx context.Context, petID string) error
}
