package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/middleware"
	"pet-care-log/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// SessionEvicter descarta el estado en memoria de un usuario al cerrar
// sesión (lo implementa session.Manager). Interfaz local para no
// acoplar este módulo al paquete session.
type SessionEvicter interface {
	Evict(userID string)
}

func RegisterRoutes(r chi.Router, svc *Service, sessions SessionEvicter) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(svc))
		ar.Post("/login", signInHandler(svc))
		ar.Post("/logout", signOutHandler(svc, sessions))
	})

	r.Get("/me", meHandler(svc))
	r.Patch("/me", updateMeHandler(svc))
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"` // sólo signup
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type meResponse struct {
	User    userResponse     `json:"user"`
	Profile *profileResponse `json:"profile,omitempty"`
}

// signUpHandler godoc
// @Summary Registrar usuario
// @Description Da de alta en el proveedor de identidad, crea el perfil y reclama invitaciones pendientes del email.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email, password y display name"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 409 {string} string "email already registered"
// @Router /auth/signup [post]
func signUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.SignUp(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrEmailTaken):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, auth.ErrInvalidCredentials):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// signInHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email y password"
// @Success 200 {object} sessionResponse
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/login [post]
func signInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

func signOutHandler(svc *Service, sessions SessionEvicter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.GetToken(r.Context())
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.SignOut(r.Context(), token); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Revocado el token, el State en memoria del usuario ya no tiene dueño.
		if sessions != nil {
			if claims, ok := middleware.GetClaims(r.Context()); ok {
				sessions.Evict(claims.UserID)
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Description Claims del token más la fila de perfil si ya existe.
// @Tags auth
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, p := svc.Me(r.Context(), claims)

		resp := meResponse{User: toUserResponse(c)}
		if p != nil {
			pr := toProfileResponse(*p)
			resp.Profile = &pr
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type updateMeRequest struct {
	Name string `json:"name"`
}

func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateMeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateName(r.Context(), middleware.GetToken(r.Context()), claims.UserID, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, profiles.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, profiles.ErrNotFound):
				http.Error(w, "profile not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{
		Token: s.Token,
		User:  toUserResponse(s.Claims),
	}
}

func toUserResponse(c auth.Claims) userResponse {
	return userResponse{
		ID:             c.UserID,
		Email:          c.Email,
		Name:           c.Name,
		EmailConfirmed: c.EmailConfirmed,
	}
}

func toProfileResponse(p profiles.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
