package session

import (
	"sync"
	"time"

	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
)

// Manager entrega el State de cada usuario autenticado. El ciclo de
// vida queda atado a la sesión, no a un global ambiente.
type Manager struct {
	mu     sync.Mutex
	states map[string]*State

	svcs Services
	log  logger.Logger
	loc  *time.Location
}

func NewManager(svcs Services, log logger.Logger, loc *time.Location) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Manager{
		states: make(map[string]*State),
		svcs:   svcs,
		log:    log,
		loc:    loc,
	}
}

// Get devuelve el State del usuario, creándolo en el primer acceso.
func (m *Manager) Get(claims auth.Claims) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.states[claims.UserID]; ok {
		return st
	}

	st := NewState(claims, m.svcs, m.log.With(map[string]any{"user_id": claims.UserID}), m.loc)
	m.states[claims.UserID] = st
	return st
}

// Evict descarta el State (logout).
func (m *Manager) Evict(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
