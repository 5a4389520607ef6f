package templates

import "time"

// ActionTemplate es una categoría de cuidado definida por el usuario,
// con un glifo para la grilla de accesos rápidos (ej: 🍗 "Сухой корм").
type ActionTemplate struct {
	ID    string
	PetID string

	Name string
	Icon string

	CreatedBy string
	CreatedAt time.Time
}
