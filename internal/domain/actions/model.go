package actions

import "time"

// Action es una ocurrencia puntual de un template sobre una mascota.
// TemplateID queda en nil si el template se borró después (la acción
// sobrevive en la historia del día).
type Action struct {
	ID    string
	PetID string

	UserID     string
	TemplateID *string

	Timestamp time.Time
	CreatedAt time.Time
}
