package familymembers

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusPending Status = "pending"
)

// FamilyMember vincula una mascota con un usuario existente (active)
// o con una invitación por email aún sin reclamar (pending, UserID nil).
type FamilyMember struct {
	ID    string
	PetID string

	// nil mientras la invitación está pendiente.
	UserID *string

	Role   Role
	Status Status

	InvitedBy    string
	InvitedEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}
