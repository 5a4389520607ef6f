package templates

import "context"

type Repository interface {
	Create(ctx context.Context, t ActionTemplate) error
	GetByID(ctx context.Context, id string) (ActionTemplate, error)
	// ListByPet ordena por created_at asc (orden de creación en la grilla).
	ListByPet(ctx context.Context, petID string) ([]ActionTemplate, error)
	// GetByIDs resuelve varios templates de una (enriquecer la lista de
	// acciones). IDs no encontrados no aparecen en el map.
	GetByIDs(ctx context.Context, ids []string) (map[string]ActionTemplate, error)
	Delete(ctx context.Context, id string) error
	DeleteByPet(ctx context.Context, petID string) error
}
