package profiles

import "time"

// Profile es la fila propia de perfil de usuario. La identidad (password,
// tokens) vive en el provider; acá sólo datos de presentación.
type Profile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}
