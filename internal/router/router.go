package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "pet-care-log/internal/adapters/storage/memory"
	pg "pet-care-log/internal/adapters/storage/postgres"
	"pet-care-log/internal/domain/accounts"
	"pet-care-log/internal/domain/actions"
	"pet-care-log/internal/domain/familymembers"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/domain/templates"
	"pet-care-log/internal/middleware"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
	"pet-care-log/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Provider de identidad. Puede ser nil: queda el modo dev con
	// X-Debug-User-ID y sin rutas /auth.
	Provider auth.Provider

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger

	// Zona horaria para el corte "hoy" de las acciones.
	Location *time.Location

	// Contrato de visibilidad eventual del perfil post-registro.
	VisibilityTimeout  time.Duration
	VisibilityInterval time.Duration
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	var verifier auth.AuthVerifier
	if opts.Provider != nil {
		verifier = opts.Provider
	}
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler())

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	var (
		profileRepo  profiles.Repository
		petRepo      pets.Repository
		memberRepo   familymembers.Repository
		templateRepo templates.Repository
		actionRepo   actions.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		profileRepo = pg.NewProfilesRepo(db)
		petRepo = pg.NewPetsRepo(db)
		memberRepo = pg.NewFamilyMembersRepo(db)
		templateRepo = pg.NewTemplatesRepo(db)
		actionRepo = pg.NewActionsRepo(db)
	} else {
		profileRepo = mem.NewProfileRepo()
		petRepo = mem.NewPetRepo()
		memberRepo = mem.NewFamilyMemberRepo()
		templateRepo = mem.NewTemplateRepo()
		actionRepo = mem.NewActionRepo()
	}

	// Services por módulo
	profilesSvc := profiles.NewService(profileRepo)
	petsSvc := pets.NewService(petRepo)
	membersSvc := familymembers.NewService(memberRepo)
	templatesSvc := templates.NewService(templateRepo)
	actionsSvc := actions.NewService(actionRepo)

	// Wiring entre módulos: el alta de mascota enrola al owner como
	// familiar, el borrado purga en cascada y el borrado de template
	// desengancha sus acciones.
	petsSvc.SetOwnerEnroller(membersSvc)
	petsSvc.AddPurger(membersSvc)
	petsSvc.AddPurger(templatesSvc)
	petsSvc.AddPurger(actionsSvc)
	templatesSvc.SetActionDetacher(actionsSvc)

	access := &memberAccess{pets: petsSvc, members: membersSvc}

	mgr := session.NewManager(session.Services{
		Profiles:  profilesSvc,
		Pets:      petsSvc,
		Members:   membersSvc,
		Templates: templatesSvc,
		Actions:   actionsSvc,
	}, log, loc)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc, membersSvc)
	familymembers.RegisterRoutes(r, membersSvc, petsSvc, profilesSvc)
	templates.RegisterRoutes(r, templatesSvc, access)
	actions.RegisterRoutes(r, actionsSvc, templatesSvc, profilesSvc, access, loc)

	if opts.Provider != nil {
		accountsSvc := accounts.NewService(accounts.Options{
			Provider:           opts.Provider,
			Profiles:           profilesSvc,
			Members:            membersSvc,
			Log:                log,
			VisibilityTimeout:  opts.VisibilityTimeout,
			VisibilityInterval: opts.VisibilityInterval,
		})
		accounts.RegisterRoutes(r, accountsSvc, mgr)
	}

	session.RegisterRoutes(r, mgr)

	return r
}

// memberAccess: owner bypass, o membresía activa en family_members.
type memberAccess struct {
	pets    *pets.Service
	members *familymembers.Service
}

func (a *memberAccess) CanAccess(ctx context.Context, petID, userID string) (bool, error) {
	owner, err := a.pets.OwnerOf(ctx, petID)
	if err != nil {
		return false, err
	}
	if owner == userID {
		return true, nil
	}
	return a.members.IsActiveMember(ctx, petID, userID)
}
