package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"eventscout/internal/search"
	"eventscout/internal/store"
)

type eventRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Venue          *string    `json:"venue"`
	VenueAddress   *string    `json:"venue_address"`
	Location       *string    `json:"location"`
	SourceURL      string     `json:"source_url"`
	SourceName     *string    `json:"source_name"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	Categories     []string   `json:"categories"`
	PriceMin       *float64   `json:"price_min"`
	PriceMax       *float64   `json:"price_max"`
	Outdoor        *bool      `json:"outdoor"`
	FamilyFriendly *bool      `json:"family_friendly"`
	ImageURL       *string    `json:"image_url"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context(), r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Events []store.Event `json:"events"`
	}{Events: events})
}

func (s *Server) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := search.FilterFromQuery(r.URL.Query(), search.SearchBounds)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := s.events.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Events []store.Event `json:"events"`
	}{Events: events})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid event id"})
		return
	}

	event, err := s.events.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleIngestEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}
	if strings.TrimSpace(req.SourceURL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "source_url is required"})
		return
	}
	if req.StartTime.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start_time is required"})
		return
	}
	if req.PriceMin != nil && req.PriceMax != nil && *req.PriceMin > *req.PriceMax {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "price_min must not exceed price_max"})
		return
	}

	event := store.Event{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Venue:          req.Venue,
		VenueAddress:   req.VenueAddress,
		Location:       req.Location,
		SourceURL:      strings.TrimSpace(req.SourceURL),
		SourceName:     req.SourceName,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Categories:     req.Categories,
		PriceMin:       req.PriceMin,
		PriceMax:       req.PriceMax,
		Outdoor:        req.Outdoor,
		FamilyFriendly: req.FamilyFriendly,
		ImageURL:       req.ImageURL,
	}

	stored, inserted, err := s.events.Ingest(r.Context(), event)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	writeJSON(w, status, stored)
}
