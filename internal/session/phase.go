package session

import "pet-care-log/internal/ports/auth"

// Phase es el estado de navegación de la app, explícito en vez de
// booleanos derivados dispersos (evita carreras de redirect).
type Phase string

const (
	PhaseUnauthenticated      Phase = "unauthenticated"
	PhaseAwaitingConfirmation Phase = "awaiting-confirmation"
	PhaseOnboarding           Phase = "onboarding"
	PhaseReady                Phase = "ready"
)

// ComputePhase es la función de transición, pura:
// - sin identidad => unauthenticated
// - identidad sin perfil o sin email confirmado => awaiting-confirmation
// - sin mascotas => onboarding
// - si no => ready
func ComputePhase(claims auth.Claims, hasProfile, hasPets bool) Phase {
	if claims.UserID == "" {
		return PhaseUnauthenticated
	}
	if !hasProfile || !claims.EmailConfirmed {
		return PhaseAwaitingConfirmation
	}
	if !hasPets {
		return PhaseOnboarding
	}
	return PhaseReady
}
