package familymembers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// OwnerResolver expone el dueño de una mascota sin importar el módulo
// pets (evita el ciclo pets <-> familymembers). Lo implementa pets.Service.
type OwnerResolver interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners OwnerResolver, profilesSvc *profiles.Service) {
	r.Route("/pets/{petID}/members", func(mr chi.Router) {
		mr.Get("/", listMembersHandler(svc, owners, profilesSvc))
		mr.Post("/", inviteMemberHandler(svc, owners))
		mr.Delete("/{memberID}", removeMemberHandler(svc, owners))
	})
}

type memberResponse struct {
	ID           string    `json:"id"`
	PetID        string    `json:"pet_id"`
	UserID       *string   `json:"user_id"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	InvitedEmail string    `json:"invited_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Enriquecido desde profiles; pendientes muestran el email invitado.
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

// listMembersHandler godoc
// @Summary Listar familia de una mascota
// @Description Miembros activos y pendientes, con nombre/email resueltos desde profiles. Owner o familiar activo.
// @Tags family
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} memberResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/members [get]
func listMembersHandler(svc *Service, owners OwnerResolver, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		ownerID, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		if ownerID != claims.UserID {
			active, err := svc.IsActiveMember(r.Context(), petID, claims.UserID)
			if err != nil || !active {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Resolver perfiles de los miembros vinculados
		ids := make([]string, 0, len(items))
		for _, m := range items {
			if m.UserID != nil {
				ids = append(ids, *m.UserID)
			}
		}
		profs, err := profilesSvc.GetByIDs(r.Context(), ids)
		if err != nil {
			profs = map[string]profiles.Profile{}
		}

		out := make([]memberResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMemberResponse(m, profs))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// inviteMemberHandler godoc
// @Summary Invitar familiar por email
// @Description Crea una membresía pending. El mismo email no puede invitarse dos veces a la misma mascota.
// @Tags family
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body inviteRequest true "email a invitar"
// @Success 201 {object} memberResponse
// @Failure 400 {string} string "invalid json / email vacío o propio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "already invited"
// @Router /pets/{petID}/members [post]
func inviteMemberHandler(svc *Service, owners OwnerResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		ownerID, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		// Cualquier familiar activo puede invitar, sin chequeo de rol.
		if ownerID != claims.UserID {
			active, err := svc.IsActiveMember(r.Context(), petID, claims.UserID)
			if err != nil || !active {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		var req inviteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Invite(r.Context(), InviteInput{
			PetID:        petID,
			InviterID:    claims.UserID,
			InviterEmail: claims.Email,
			Email:        req.Email,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrAlreadyInvited):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toMemberResponse(m, nil))
	}
}

func removeMemberHandler(svc *Service, owners OwnerResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		ownerID, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		err = svc.Remove(r.Context(), chi.URLParam(r, "memberID"), claims.UserID, ownerID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "member not found", http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMemberResponse(m FamilyMember, profs map[string]profiles.Profile) memberResponse {
	out := memberResponse{
		ID:           m.ID,
		PetID:        m.PetID,
		UserID:       m.UserID,
		Role:         m.Role,
		Status:       m.Status,
		InvitedEmail: m.InvitedEmail,
		CreatedAt:    m.CreatedAt,
	}

	if m.UserID != nil {
		if p, ok := profs[*m.UserID]; ok {
			out.UserName = p.Name
			out.UserEmail = p.Email
		}
	}
	if out.UserEmail == "" {
		out.UserEmail = m.InvitedEmail
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
