package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, mgr *Manager) {
	r.Get("/me/state", getStateHandler(mgr))
	r.Put("/me/state/pet", selectPetHandler(mgr))
	r.Post("/me/state/refresh", refreshStateHandler(mgr))
}

type snapshotResponse struct {
	Phase string `json:"phase"`

	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`

	Pets         []snapshotPet      `json:"pets"`
	CurrentPetID string             `json:"current_pet_id,omitempty"`
	Templates    []snapshotTemplate `json:"templates"`
	TodayActions []snapshotAction   `json:"today_actions"`
}

type snapshotPet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_user_id"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type snapshotTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type snapshotAction struct {
	ID           string    `json:"id"`
	TemplateID   *string   `json:"template_id"`
	Timestamp    time.Time `json:"timestamp"`
	UserName     string    `json:"user_name,omitempty"`
	TemplateName string    `json:"template_name,omitempty"`
	TemplateIcon string    `json:"template_icon"`
}

// getStateHandler godoc
// @Summary Snapshot de la sesión
// @Description Estado completo del usuario: fase de navegación, mascotas, seleccionada, templates y acciones de hoy. Refresca usuario y mascotas antes de responder.
// @Tags session
// @Produce json
// @Success 200 {object} snapshotResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/state [get]
func getStateHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st := mgr.Get(claims)
		st.RefreshUser(r.Context(), claims)
		st.RefreshPets(r.Context())

		writeJSON(w, http.StatusOK, toSnapshotResponse(st.Snapshot()))
	}
}

type selectPetRequest struct {
	PetID string `json:"pet_id"`
}

func selectPetHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req selectPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st := mgr.Get(claims)
		if err := st.SelectPet(r.Context(), strings.TrimSpace(req.PetID)); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSnapshotResponse(st.Snapshot()))
	}
}

func refreshStateHandler(mgr *Manager) http.HandlerFunc {
	// Recarga lista de mascotas y los datos de la seleccionada.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st := mgr.Get(claims)
		st.RefreshCurrentPetData(r.Context())

		writeJSON(w, http.StatusOK, toSnapshotResponse(st.Snapshot()))
	}
}

func toSnapshotResponse(s Snapshot) snapshotResponse {
	out := snapshotResponse{
		Phase:        string(s.Phase),
		CurrentPetID: s.CurrentPetID,
		Pets:         make([]snapshotPet, 0, len(s.Pets)),
		Templates:    make([]snapshotTemplate, 0, len(s.Templates)),
		TodayActions: make([]snapshotAction, 0, len(s.TodayActions)),
	}

	out.User.ID = s.Claims.UserID
	out.User.Email = s.Claims.Email
	out.User.Name = s.Claims.Name
	if s.Profile != nil && s.Profile.Name != "" {
		out.User.Name = s.Profile.Name
	}

	for _, p := range s.Pets {
		out.Pets = append(out.Pets, snapshotPet{
			ID:        p.ID,
			Name:      p.Name,
			OwnerID:   p.OwnerUserID,
			AvatarURL: p.AvatarURL,
		})
	}
	for _, t := range s.Templates {
		out.Templates = append(out.Templates, snapshotTemplate{ID: t.ID, Name: t.Name, Icon: t.Icon})
	}
	for _, a := range s.TodayActions {
		out.TodayActions = append(out.TodayActions, snapshotAction{
			ID:           a.ID,
			TemplateID:   a.TemplateID,
			Timestamp:    a.Timestamp,
			UserName:     a.UserName,
			TemplateName: a.TemplateName,
			TemplateIcon: a.TemplateIcon,
		})
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
