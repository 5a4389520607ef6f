package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// MemberChecker autoriza acceso a los datos de una mascota: owner
// bypass o membresía activa. Lo arma el router sobre pets+familymembers.
type MemberChecker interface {
	CanAccess(ctx context.Context, petID, userID string) (bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, access MemberChecker) {
	r.Route("/pets/{petID}/templates", func(tr chi.Router) {
		tr.Get("/", listTemplatesHandler(svc, access))
		tr.Post("/", createTemplateHandler(svc, access))

		// Cualquier familiar con acceso puede borrar, sin chequeo de rol.
		tr.Delete("/{templateID}", deleteTemplateHandler(svc, access))
	})
}

type createTemplateRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type templateResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// listTemplatesHandler godoc
// @Summary Listar templates de acción
// @Description Templates de la mascota en orden de creación (asc).
// @Tags templates
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} templateResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/templates [get]
func listTemplatesHandler(svc *Service, access MemberChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, petID, ok := authorize(w, r, access)
		if !ok {
			return
		}

		items, err := svc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]templateResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTemplateResponse(t))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// createTemplateHandler godoc
// @Summary Crear template de acción
// @Tags templates
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body createTemplateRequest true "nombre y glifo"
// @Success 201 {object} templateResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/templates [post]
func createTemplateHandler(svc *Service, access MemberChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, petID, ok := authorize(w, r, access)
		if !ok {
			return
		}

		var req createTemplateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Create(r.Context(), petID, userID, CreateInput{
			Name: req.Name,
			Icon: req.Icon,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toTemplateResponse(t))
	}
}

func deleteTemplateHandler(svc *Service, access MemberChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, petID, ok := authorize(w, r, access)
		if !ok {
			return
		}

		templateID := chi.URLParam(r, "templateID")

		// El template debe pertenecer a la mascota de la URL
		t, err := svc.GetByID(r.Context(), templateID)
		if err != nil || t.PetID != petID {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), templateID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// authorize corta con 401/403 y devuelve ok=false; si ok, devuelve
// el userID y el petID ya validados.
func authorize(w http.ResponseWriter, r *http.Request, access MemberChecker) (userID, petID string, ok bool) {
	c, has := middleware.GetClaims(r.Context())
	if !has || strings.TrimSpace(c.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", "", false
	}

	petID = chi.URLParam(r, "petID")
	allowed, err := access.CanAccess(r.Context(), petID, c.UserID)
	if err != nil || !allowed {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", "", false
	}

	return c.UserID, petID, true
}

func toTemplateResponse(t ActionTemplate) templateResponse {
	return templateResponse{
		ID:        t.ID,
		PetID:     t.PetID,
		Name:      t.Name,
		Icon:      t.Icon,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
