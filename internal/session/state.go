// Package session implementa el contenedor de estado compartido por las
// vistas: usuario actual, mascotas, mascota seleccionada y sus templates
// y acciones del día. Es el único punto por el que las vistas leen o
// mutan estos datos.
//
// Política general: cada mutación recarga entera la colección afectada
// (sin parches incrementales), y las cargas fallidas dejan el último
// valor bueno (stale-on-error) logueando el error.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"pet-care-log/internal/domain/actions"
	"pet-care-log/internal/domain/familymembers"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/domain/templates"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
)

var (
	ErrNoPetSelected = errors.New("no pet selected")
	ErrNotFound      = errors.New("not found")
)

// Services agrupa las dependencias del contenedor. Se inyectan
// explícitamente, nada de estado global.
type Services struct {
	Profiles  *profiles.Service
	Pets      *pets.Service
	Members   *familymembers.Service
	Templates *templates.Service
	Actions   *actions.Service
}

type State struct {
	mu   sync.Mutex
	svcs Services
	log  logger.Logger

	// Zona horaria del observador para el corte de medianoche.
	loc *time.Location

	claims  auth.Claims
	profile *profiles.Profile

	pets         []pets.Pet
	currentPetID string

	templates    []templates.ActionTemplate
	todayActions []actions.View

	userLoading bool
	petsLoading bool

	// Guardas monotónicas: una respuesta de una carga superada se
	// descarta (cambio rápido de mascota, ver tplGen/actGen).
	tplGen uint64
	actGen uint64
}

func NewState(claims auth.Claims, svcs Services, log logger.Logger, loc *time.Location) *State {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &State{
		svcs:         svcs,
		log:          log,
		loc:          loc,
		claims:       claims,
		pets:         []pets.Pet{},
		templates:    []templates.ActionTemplate{},
		todayActions: []actions.View{},
	}
}

// RefreshUser re-resuelve la identidad y su fila de perfil. En error
// queda el estado anterior.
func (s *State) RefreshUser(ctx context.Context, claims auth.Claims) {
	s.mu.Lock()
	s.userLoading = true
	s.claims = claims
	s.mu.Unlock()

	p, err := s.svcs.Profiles.GetByID(ctx, claims.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLoading = false

	if err != nil {
		if !errors.Is(err, profiles.ErrNotFound) {
			s.log.Error("refresh user failed", map[string]any{"err": err.Error()})
			return
		}
		// Sin fila de perfil: fase awaiting-confirmation.
		s.profile = nil
		return
	}
	s.profile = &p
}

// RefreshPets carga la unión de mascotas propias y compartidas
// activamente, sin duplicados (las propias primero), y reemplaza la
// lista entera. En error queda la última lista buena.
func (s *State) RefreshPets(ctx context.Context) {
	s.mu.Lock()
	s.petsLoading = true
	userID := s.claims.UserID
	s.mu.Unlock()

	list, err := s.fetchPets(ctx, userID)

	s.mu.Lock()
	s.petsLoading = false

	if err != nil {
		s.mu.Unlock()
		s.log.Error("refresh pets failed", map[string]any{"err": err.Error()})
		return
	}

	s.pets = list
	loadID := s.applySelectionLocked()
	s.mu.Unlock()

	if loadID != "" {
		s.LoadTemplates(ctx, loadID)
		s.LoadTodayActions(ctx, loadID)
	}
}

func (s *State) fetchPets(ctx context.Context, userID string) ([]pets.Pet, error) {
	owned, err := s.svcs.Pets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	sharedIDs, err := s.svcs.Members.ListActivePetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]pets.Pet, 0, len(owned)+len(sharedIDs))

	for _, p := range owned {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, id := range sharedIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		p, err := s.svcs.Pets.GetByID(ctx, id)
		if err != nil {
			// tolera membresías huérfanas
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}

	return out, nil
}

// applySelectionLocked mantiene las reglas de selección:
// - lista no vacía y sin selección => primera mascota
// - lista vacía => selección y caches dependientes se limpian juntos
// - la seleccionada ya no está => cae a la primera
// Requiere mu tomado. Devuelve el petID cuyos datos hay que cargar
// (fuera del lock), o "" si no hay nada que cargar.
func (s *State) applySelectionLocked() string {
	if len(s.pets) == 0 {
		s.currentPetID = ""
		s.templates = []templates.ActionTemplate{}
		s.todayActions = []actions.View{}
		s.tplGen++
		s.actGen++
		return ""
	}

	still := false
	for _, p := range s.pets {
		if p.ID == s.currentPetID {
			still = true
			break
		}
	}

	if s.currentPetID == "" || !still {
		s.currentPetID = s.pets[0].ID
		return s.currentPetID
	}
	return ""
}

// SelectPet cambia la mascota actual y recarga sus datos. La mascota
// tiene que estar en la lista cargada.
func (s *State) SelectPet(ctx context.Context, petID string) error {
	s.mu.Lock()
	found := false
	for _, p := range s.pets {
		if p.ID == petID {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.currentPetID = petID
	s.mu.Unlock()

	s.LoadTemplates(ctx, petID)
	s.LoadTodayActions(ctx, petID)
	return nil
}

// LoadTemplates carga los templates de la mascota (created_at asc).
// Una respuesta de una carga superada se descarta (guarda monotónica).
func (s *State) LoadTemplates(ctx context.Context, petID string) {
	s.mu.Lock()
	s.tplGen++
	gen := s.tplGen
	s.mu.Unlock()

	items, err := s.svcs.Templates.ListByPet(ctx, petID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.tplGen {
		// carga superada por otra más nueva
		return
	}
	if err != nil {
		s.log.Error("load templates failed", map[string]any{"pet_id": petID, "err": err.Error()})
		return
	}
	s.templates = items
}

// LoadTodayActions carga las acciones desde la medianoche local del
// observador (recalculada en cada llamada), más recientes primero,
// enriquecidas con nombres de usuario y datos del template.
func (s *State) LoadTodayActions(ctx context.Context, petID string) {
	s.mu.Lock()
	s.actGen++
	gen := s.actGen
	s.mu.Unlock()

	views, err := s.fetchTodayViews(ctx, petID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.actGen {
		return
	}
	if err != nil {
		s.log.Error("load today actions failed", map[string]any{"pet_id": petID, "err": err.Error()})
		return
	}
	s.todayActions = views
}

func (s *State) fetchTodayViews(ctx context.Context, petID string) ([]actions.View, error) {
	items, err := s.svcs.Actions.ListToday(ctx, petID, s.loc)
	if err != nil {
		return nil, err
	}

	profs, err := s.svcs.Profiles.GetByIDs(ctx, actions.UserIDs(items))
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(profs))
	for id, p := range profs {
		names[id] = p.Name
	}

	tplRows, err := s.svcs.Templates.GetByIDs(ctx, actions.TemplateIDs(items))
	if err != nil {
		return nil, err
	}
	tpls := make(map[string]actions.TemplateInfo, len(tplRows))
	for id, t := range tplRows {
		tpls[id] = actions.TemplateInfo{Name: t.Name, Icon: t.Icon}
	}

	return actions.BuildViews(items, names, tpls), nil
}

// AddAction inserta la acción para la mascota actual y recarga las
// acciones de hoy (sin insert optimista).
func (s *State) AddAction(ctx context.Context, templateID string) error {
	s.mu.Lock()
	petID := s.currentPetID
	userID := s.claims.UserID
	s.mu.Unlock()

	if petID == "" {
		return ErrNoPetSelected
	}

	t, err := s.svcs.Templates.GetByID(ctx, templateID)
	if err != nil || t.PetID != petID {
		return ErrNotFound
	}

	if _, err := s.svcs.Actions.Add(ctx, petID, userID, &templateID); err != nil {
		return err
	}

	s.LoadTodayActions(ctx, petID)
	return nil
}

// DeleteAction borra la fila y recarga las acciones de hoy.
func (s *State) DeleteAction(ctx context.Context, actionID string) error {
	s.mu.Lock()
	petID := s.currentPetID
	s.mu.Unlock()

	if petID == "" {
		return ErrNoPetSelected
	}

	a, err := s.svcs.Actions.GetByID(ctx, actionID)
	if err != nil || a.PetID != petID {
		return ErrNotFound
	}

	if err := s.svcs.Actions.Delete(ctx, actionID); err != nil {
		return err
	}

	s.LoadTodayActions(ctx, petID)
	return nil
}

// DeleteTemplate borra el template (las acciones que lo referencian
// quedan con template nil) y recarga templates y acciones de hoy.
func (s *State) DeleteTemplate(ctx context.Context, templateID string) error {
	s.mu.Lock()
	petID := s.currentPetID
	s.mu.Unlock()

	if petID == "" {
		return ErrNoPetSelected
	}

	t, err := s.svcs.Templates.GetByID(ctx, templateID)
	if err != nil || t.PetID != petID {
		return ErrNotFound
	}

	if err := s.svcs.Templates.Delete(ctx, templateID); err != nil {
		return err
	}

	s.LoadTemplates(ctx, petID)
	s.LoadTodayActions(ctx, petID)
	return nil
}

// RefreshCurrentPetData recarga templates y acciones de hoy de la
// mascota actual.
func (s *State) RefreshCurrentPetData(ctx context.Context) {
	s.mu.Lock()
	petID := s.currentPetID
	s.mu.Unlock()

	if petID == "" {
		return
	}
	s.LoadTemplates(ctx, petID)
	s.LoadTodayActions(ctx, petID)
}

// Snapshot es la foto consistente que consumen las vistas.
type Snapshot struct {
	Phase Phase

	Claims  auth.Claims
	Profile *profiles.Profile

	Pets         []pets.Pet
	CurrentPetID string

	Templates    []templates.ActionTemplate
	TodayActions []actions.View

	UserLoading bool
	PetsLoading bool
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:        ComputePhase(s.claims, s.profile != nil, len(s.pets) > 0),
		Claims:       s.claims,
		Profile:      s.profile,
		CurrentPetID: s.currentPetID,
		UserLoading:  s.userLoading,
		PetsLoading:  s.petsLoading,
	}

	snap.Pets = make([]pets.Pet, len(s.pets))
	copy(snap.Pets, s.pets)
	snap.Templates = make([]templates.ActionTemplate, len(s.templates))
	copy(snap.Templates, s.templates)
	snap.TodayActions = make([]actions.View, len(s.todayActions))
	copy(snap.TodayActions, s.todayActions)

	return snap
}
