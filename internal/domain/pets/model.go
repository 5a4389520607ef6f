package pets

import "time"

// Pet es el sujeto de los cuidados: un dueño, cero o más familiares
// con acceso (ver familymembers).
type Pet struct {
	ID          string
	OwnerUserID string

	Name      string
	AvatarURL string

	CreatedAt time.Time
}
