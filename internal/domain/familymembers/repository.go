package familymembers

import "context"

type Repository interface {
	Create(ctx context.Context, m FamilyMember) error
	Update(ctx context.Context, m FamilyMember) error
	GetByID(ctx context.Context, id string) (FamilyMember, error)
	Delete(ctx context.Context, id string) error

	// ListByPet ordena por created_at asc (el owner queda primero).
	ListByPet(ctx context.Context, petID string) ([]FamilyMember, error)

	// ListActiveByUser: membresías activas del usuario (para la unión
	// owned ∪ shared del contenedor de sesión).
	ListActiveByUser(ctx context.Context, userID string) ([]FamilyMember, error)

	// ListPendingByEmail: invitaciones sin reclamar para ese correo.
	ListPendingByEmail(ctx context.Context, email string) ([]FamilyMember, error)

	DeleteByPet(ctx context.Context, petID string) error
}
