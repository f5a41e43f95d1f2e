package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"eventscout/internal/store"

	"github.com/google/uuid"
)

type userRequest struct {
	Email              string  `json:"email"`
	Name               string  `json:"name"`
	LocationPreference *string `json:"location_preference"`
}

type preferenceRequest struct {
	Category string   `json:"category"`
	Weight   *float64 `json:"weight"`
}

type interactionRequest struct {
	EventID         uuid.UUID `json:"event_id"`
	InteractionType string    `json:"interaction_type"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	user, err := s.users.Create(r.Context(), store.User{
		Email:              strings.TrimSpace(req.Email),
		Name:               strings.TrimSpace(req.Name),
		LocationPreference: req.LocationPreference,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	profile, err := s.users.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	prefs, err := s.users.Preferences(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Preferences []store.UserPreference `json:"preferences"`
	}{Preferences: prefs})
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "category is required"})
		return
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	if weight <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "weight must be positive"})
		return
	}

	pref, err := s.users.SetPreference(r.Context(), id, category, weight)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pref)
}

func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	interactions, err := s.users.Interactions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Interactions []store.UserInteraction `json:"interactions"`
	}{Interactions: interactions})
}

func (s *Server) handleRecordInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if req.EventID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "event_id is required"})
		return
	}
	if strings.TrimSpace(req.InteractionType) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "interaction_type is required"})
		return
	}

	interaction, err := s.users.RecordInteraction(r.Context(), id, req.EventID, strings.TrimSpace(req.InteractionType))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, interaction)
}
