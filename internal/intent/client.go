// Package intent talks to the external natural-language service that turns
// a user message into structured search parameters. Its output is untrusted
// input: everything it returns goes through the same validation as query
// parameters typed by a user.
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventscout/internal/search"
)

// ErrUnavailable signals the intent service could not produce a usable
// result: unreachable, non-2xx, or malformed output. Callers must surface
// this distinctly instead of falling back to an unfiltered search.
var ErrUnavailable = errors.New("intent service unavailable")

// Client calls the intent service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an intent service client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type parseRequest struct {
	Query string `json:"query"`
}

type parseResponse struct {
	ParsedParams parsedParams `json:"parsed_params"`
}

// parsedParams mirrors the service's extraction schema. Fields are pointers
// so "null" and "absent" both mean no constraint.
type parsedParams struct {
	Query          *string  `json:"q"`
	Category       *string  `json:"category"`
	Venue          *string  `json:"venue"`
	Location       *string  `json:"location"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	PriceMax       *float64 `json:"price_max"`
	Outdoor        *bool    `json:"outdoor"`
	FamilyFriendly *bool    `json:"family_friendly"`
}

// ParseIntent sends the user message to the service and converts its
// structured reply into a validated search filter.
func (c *Client) ParseIntent(ctx context.Context, message string) (search.Filter, error) {
	body, err := json.Marshal(parseRequest{Query: message})
	if err != nil {
		return search.Filter{}, fmt.Errorf("encode intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return search.Filter{}, fmt.Errorf("build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return search.Filter{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return search.Filter{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return search.Filter{}, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	filter, err := search.ParseFilter(toRawFilter(parsed.ParsedParams), search.SearchBounds)
	if err != nil {
		// The service invented a value our own validation rejects; treat it
		// the same as any other malformed output.
		return search.Filter{}, fmt.Errorf("%w: invalid parsed_params: %v", ErrUnavailable, err)
	}

	return filter, nil
}

// Healthy probes the service's readiness endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func toRawFilter(p parsedParams) search.RawFilter {
	raw := search.RawFilter{
		Query:     stringValue(p.Query),
		Category:  stringValue(p.Category),
		Venue:     stringValue(p.Venue),
		Location:  stringValue(p.Location),
		StartDate: stringValue(p.StartDate),
		EndDate:   stringValue(p.EndDate),
	}
	if p.PriceMax != nil {
		raw.MaxPrice = strconv.FormatFloat(*p.PriceMax, 'f', -1, 64)
	}
	if p.Outdoor != nil {
		raw.Outdoor = strconv.FormatBool(*p.Outdoor)
	}
	if p.FamilyFriendly != nil {
		raw.FamilyFriendly = strconv.FormatBool(*p.FamilyFriendly)
	}
	return raw
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
