package intent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseIntentMapsParsedParams(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"parsed_params": {
				"q": "art walk",
				"category": "arts",
				"start_date": "2026-09-01",
				"price_max": 20,
				"family_friendly": true
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)

	filter, err := c.ParseIntent(context.Background(), "free family art stuff in september")
	if err != nil {
		t.Fatalf("ParseIntent: %v", err)
	}

	if gotPath != "/search" {
		t.Fatalf("expected POST /search, got %s", gotPath)
	}
	if gotBody["query"] != "free family art stuff in september" {
		t.Fatalf("unexpected request body: %#v", gotBody)
	}

	if filter.Query != "art walk" || filter.Category != "arts" {
		t.Fatalf("unexpected filter text fields: %#v", filter)
	}
	if filter.StartDate == nil || !filter.StartDate.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date: %v", filter.StartDate)
	}
	if filter.MaxPrice == nil || *filter.MaxPrice != 20 {
		t.Fatalf("unexpected max price: %v", filter.MaxPrice)
	}
	if !filter.FamilyFriendly || filter.Outdoor {
		t.Fatalf("unexpected flags: %#v", filter)
	}
	if filter.Limit != 50 {
		t.Fatalf("expected default limit 50, got %d", filter.Limit)
	}
}

func TestParseIntentNullParamsMeanNoConstraint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"parsed_params": {"q": null, "category": null, "outdoor": null}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)

	filter, err := c.ParseIntent(context.Background(), "anything fun")
	if err != nil {
		t.Fatalf("ParseIntent: %v", err)
	}
	if filter.Query != "" || filter.Category != "" || filter.Outdoor {
		t.Fatalf("expected unconstrained filter, got %#v", filter)
	}
}

func TestParseIntentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.ParseIntent(context.Background(), "jazz tonight")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseIntentNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.ParseIntent(context.Background(), "jazz tonight")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseIntentMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"parsed_params": `))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.ParseIntent(context.Background(), "jazz tonight")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

// The service sometimes hallucinates values; anything that fails filter
// validation is treated like any other malformed reply.
func TestParseIntentInvalidExtractedDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"parsed_params": {"start_date": "next Tuesday-ish"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	_, err := c.ParseIntent(context.Background(), "something next week")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.Healthy(context.Background()); err != nil {
		t.Fatalf("Healthy: %v", err)
	}

	srv.Close()
	if err := c.Healthy(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after shutdown, got %v", err)
	}
}
