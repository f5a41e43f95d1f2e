package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"eventscout/internal/search"
	"eventscout/internal/store"
)

type assistantRequest struct {
	Query string `json:"query"`
}

// filterView is the caller-facing echo of what the assistant understood
// from the message. Absent constraints are omitted.
type filterView struct {
	Query          string   `json:"q,omitempty"`
	Category       string   `json:"category,omitempty"`
	Venue          string   `json:"venue,omitempty"`
	Location       string   `json:"location,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	MaxPrice       *float64 `json:"price_max,omitempty"`
	Outdoor        bool     `json:"outdoor,omitempty"`
	FamilyFriendly bool     `json:"family_friendly,omitempty"`
}

func (s *Server) handleAssistantSearch(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	message := strings.TrimSpace(req.Query)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	filter, events, err := s.assistant.Search(r.Context(), message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Filter filterView    `json:"filter"`
		Events []store.Event `json:"events"`
	}{Filter: viewOf(filter), Events: events})
}

func viewOf(f search.Filter) filterView {
	return filterView{
		Query:          f.Query,
		Category:       f.Category,
		Venue:          f.Venue,
		Location:       f.Location,
		StartDate:      formatDate(f.StartDate),
		EndDate:        formatDate(f.EndDate),
		MaxPrice:       f.MaxPrice,
		Outdoor:        f.Outdoor,
		FamilyFriendly: f.FamilyFriendly,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
