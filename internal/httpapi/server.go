package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"eventscout/internal/app/users"
	"eventscout/internal/intent"
	"eventscout/internal/search"
	"eventscout/internal/store"

	"github.com/google/uuid"
)

// EventService coordinates event discovery and ingestion workflows.
type EventService interface {
	Search(ctx context.Context, filter search.Filter) ([]store.Event, error)
	List(ctx context.Context, rawLimit string) ([]store.Event, error)
	Get(ctx context.Context, id uuid.UUID) (store.Event, error)
	Ingest(ctx context.Context, e store.Event) (store.Event, bool, error)
}

// VenueService coordinates the venue registry.
type VenueService interface {
	List(ctx context.Context, rawLimit string, missingWebsite bool) ([]store.Venue, error)
	Get(ctx context.Context, id uuid.UUID) (store.Venue, error)
	Ingest(ctx context.Context, v store.Venue) (store.Venue, bool, error)
	Patch(ctx context.Context, id uuid.UUID, patch store.VenuePatch) (store.Venue, error)
}

// AssistantService answers natural-language event queries.
type AssistantService interface {
	Search(ctx context.Context, message string) (search.Filter, []store.Event, error)
	Healthy(ctx context.Context) error
}

// UserService coordinates user accounts, preferences, and interactions.
type UserService interface {
	Create(ctx context.Context, u store.User) (store.User, error)
	Get(ctx context.Context, id uuid.UUID) (store.User, error)
	Profile(ctx context.Context, id uuid.UUID) (users.Profile, error)
	Preferences(ctx context.Context, id uuid.UUID) ([]store.UserPreference, error)
	SetPreference(ctx context.Context, id uuid.UUID, category string, weight float64) (store.UserPreference, error)
	Interactions(ctx context.Context, id uuid.UUID) ([]store.UserInteraction, error)
	RecordInteraction(ctx context.Context, id, eventID uuid.UUID, interactionType string) (store.UserInteraction, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	events    EventService
	venues    VenueService
	assistant AssistantService
	users     UserService
}

// New configures a Server with the given services.
func New(events EventService, venues VenueService, assistant AssistantService, users UserService) *Server {
	return &Server{
		events:    events,
		venues:    venues,
		assistant: assistant,
		users:     users,
	}
}

// Routes exposes the HTTP handlers for event discovery.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/v1/events", s.handleListEvents)
	mux.HandleFunc("POST /api/v1/events", s.handleIngestEvent)
	mux.HandleFunc("GET /api/v1/events/search", s.handleSearchEvents)
	mux.HandleFunc("GET /api/v1/events/{id}", s.handleGetEvent)

	mux.HandleFunc("GET /api/v1/venues", s.handleListVenues)
	mux.HandleFunc("POST /api/v1/venues", s.handleIngestVenue)
	mux.HandleFunc("GET /api/v1/venues/{id}", s.handleGetVenue)
	mux.HandleFunc("PATCH /api/v1/venues/{id}", s.handlePatchVenue)

	mux.HandleFunc("POST /api/v1/assistant/search", s.handleAssistantSearch)

	mux.HandleFunc("POST /api/v1/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/v1/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/v1/users/{id}/profile", s.handleUserProfile)
	mux.HandleFunc("GET /api/v1/users/{id}/preferences", s.handleListPreferences)
	mux.HandleFunc("POST /api/v1/users/{id}/preferences", s.handleSetPreference)
	mux.HandleFunc("GET /api/v1/users/{id}/interactions", s.handleListInteractions)
	mux.HandleFunc("POST /api/v1/users/{id}/interactions", s.handleRecordInteraction)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "ok",
		"assistant": "ok",
	}
	if err := s.assistant.Healthy(r.Context()); err != nil {
		status["assistant"] = "unavailable"
	}
	writeJSON(w, http.StatusOK, status)
}

// writeError maps domain failures onto HTTP statuses. Anything unrecognized
// is a 500 with a generic message so storage details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var verr *search.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, store.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "event not found"})
	case errors.Is(err, store.ErrVenueNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "venue not found"})
	case errors.Is(err, store.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.Is(err, store.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	case errors.Is(err, intent.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "assistant unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
