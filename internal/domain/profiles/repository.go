package profiles

import "context"

type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	// GetByIDs resuelve varios perfiles de una (joins de nombres).
	// IDs no encontrados simplemente no aparecen en el map.
	GetByIDs(ctx context.Context, ids []string) (map[string]Profile, error)
}
