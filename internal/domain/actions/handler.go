package actions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/domain/profiles"
	"pet-care-log/internal/domain/templates"
	"pet-care-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// MemberChecker autoriza acceso a los datos de una mascota (owner bypass
// o membresía activa). Lo arma el router.
type MemberChecker interface {
	CanAccess(ctx context.Context, petID, userID string) (bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, tplSvc *templates.Service, profilesSvc *profiles.Service, access MemberChecker, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	r.Route("/pets/{petID}/actions", func(ar chi.Router) {
		ar.Get("/today", listTodayHandler(svc, tplSvc, profilesSvc, access, loc))
		ar.Post("/", addActionHandler(svc, tplSvc, access))
		ar.Delete("/{actionID}", deleteActionHandler(svc, access))
	})
}

type addActionRequest struct {
	TemplateID string `json:"template_id"`
}

type actionResponse struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	UserID     string    `json:"user_id"`
	TemplateID *string   `json:"template_id"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`

	// Enriquecido; para acciones sin template queda el glifo fallback.
	UserName     string `json:"user_name,omitempty"`
	TemplateName string `json:"template_name,omitempty"`
	TemplateIcon string `json:"template_icon,omitempty"`
}

// listTodayHandler godoc
// @Summary Acciones de hoy
// @Description Acciones desde la medianoche de la zona configurada, más recientes primero, con nombre de usuario y template resueltos.
// @Tags actions
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} actionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/actions/today [get]
func listTodayHandler(svc *Service, tplSvc *templates.Service, profilesSvc *profiles.Service, access MemberChecker, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, petID, ok := authorize(w, r, access)
		if !ok {
			return
		}

		items, err := svc.ListToday(r.Context(), petID, loc)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		views, err := enrich(r.Context(), items, tplSvc, profilesSvc)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]actionResponse, 0, len(views))
		for _, v := range views {
			out = append(out, toActionResponse(v))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// addActionHandler godoc
// @Summary Registrar acción
// @Description Inserta la acción con timestamp "ahora" para el usuario autenticado. El template debe pertenecer a la mascota.
// @Tags actions
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body addActionRequest true "template a aplicar"
// @Success 201 {object} actionResponse
// @Failure 400 {string} string "invalid json / template inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "template not found"
// @Router /pets/{petID}/actions [post]
func addActionHandler(svc *Service, tplSvc *templates.Service, access MemberChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, petID, ok := authorize(w, r, access)
		if !ok {
			return
		}

		var req addActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		tplID := strings.TrimSpace(req.TemplateID)
		if tplID == "" {
			http.Error(w, "template_id required", http.StatusBadRequest)
			return
		}

		t, err := tplSvc.GetByID(r.Context(), tplID)
		if err != nil || t.PetID != petID {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}

		a, err := svc.Add(r.Context(), petID, userID, &tplID)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toActionResponse(View{Action: a, TemplateName: t.Name, TemplateIcon: t.Icon}))
	}
}

func deleteActionHandler(svc *Service, access MemberChecker) http.HandlerFunc {
	// Sin chequeo de rol ni autoría: cualquier familiar con acceso
	// puede borrar.
	return func(w http.ResponseWriter, r *http.Request) {
		_, petID, ok := authorize(w, r, access)
		if !ok {
			return
		}

		actionID := chi.URLParam(r, "actionID")
		a, err := svc.GetByID(r.Context(), actionID)
		if err != nil || a.PetID != petID {
			http.Error(w, "action not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), actionID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// enrich resuelve nombres de usuario y datos del template para la vista.
func enrich(ctx context.Context, items []Action, tplSvc *templates.Service, profilesSvc *profiles.Service) ([]View, error) {
	profs, err := profilesSvc.GetByIDs(ctx, UserIDs(items))
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(profs))
	for id, p := range profs {
		names[id] = p.Name
	}

	tplRows, err := tplSvc.GetByIDs(ctx, TemplateIDs(items))
	if err != nil {
		return nil, err
	}
	tpls := make(map[string]TemplateInfo, len(tplRows))
	for id, t := range tplRows {
		tpls[id] = TemplateInfo{Name: t.Name, Icon: t.Icon}
	}

	return BuildViews(items, names, tpls), nil
}

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

func toActionResponse(v View) actionResponse {
	return actionResponse{
		ID:           v.ID,
		PetID:        v.PetID,
		UserID:       v.UserID,
		TemplateID:   v.TemplateID,
		Timestamp:    v.Timestamp,
		CreatedAt:    v.CreatedAt,
		UserName:     v.UserName,
		TemplateName: v.TemplateName,
		TemplateIcon: v.TemplateIcon,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
