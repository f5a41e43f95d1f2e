package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"eventscout/internal/store"
)

type venueRequest struct {
	Name              string   `json:"name"`
	Address           *string  `json:"address"`
	City              *string  `json:"city"`
	Capacity          *int     `json:"capacity"`
	VenueType         *string  `json:"venue_type"`
	NoiseLevel        *string  `json:"noise_level"`
	ParkingInfo       *string  `json:"parking_info"`
	AccessibilityInfo *string  `json:"accessibility_info"`
	Website           *string  `json:"website"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

type venuePatchRequest struct {
	Address           *string  `json:"address"`
	City              *string  `json:"city"`
	Capacity          *int     `json:"capacity"`
	VenueType         *string  `json:"venue_type"`
	NoiseLevel        *string  `json:"noise_level"`
	ParkingInfo       *string  `json:"parking_info"`
	AccessibilityInfo *string  `json:"accessibility_info"`
	Website           *string  `json:"website"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	missingWebsite := false
	if v := query.Get("missing_website"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid missing_website: must be true or false"})
			return
		}
		missingWebsite = parsed
	}

	venues, err := s.venues.List(r.Context(), query.Get("limit"), missingWebsite)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Venues []store.Venue `json:"venues"`
	}{Venues: venues})
}

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid venue id"})
		return
	}

	venue, err := s.venues.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, venue)
}

func (s *Server) handleIngestVenue(w http.ResponseWriter, r *http.Request) {
	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	venue := store.Venue{
		Name:              req.Name,
		Address:           req.Address,
		City:              req.City,
		Capacity:          req.Capacity,
		VenueType:         req.VenueType,
		NoiseLevel:        req.NoiseLevel,
		ParkingInfo:       req.ParkingInfo,
		AccessibilityInfo: req.AccessibilityInfo,
		Website:           req.Website,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	}

	stored, created, err := s.venues.Ingest(r.Context(), venue)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, stored)
}

func (s *Server) handlePatchVenue(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid venue id"})
		return
	}

	var req venuePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	patch := store.VenuePatch{
		Address:           req.Address,
		City:              req.City,
		Capacity:          req.Capacity,
		VenueType:         req.VenueType,
		NoiseLevel:        req.NoiseLevel,
		ParkingInfo:       req.ParkingInfo,
		AccessibilityInfo: req.AccessibilityInfo,
		Website:           req.Website,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	}

	venue, err := s.venues.Patch(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, venue)
}
