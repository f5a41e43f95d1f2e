package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Bounds controls how the limit field is clamped for a given endpoint.
type Bounds struct {
	Default int
	Max     int
}

var (
	// SearchBounds applies to interactive search requests.
	SearchBounds = Bounds{Default: 50, Max: 100}
	// EventListBounds applies to the plain event listing.
	EventListBounds = Bounds{Default: 100, Max: 1000}
	// VenueListBounds applies to the venue listing.
	VenueListBounds = Bounds{Default: 500, Max: 1000}
)

// ValidationError reports a filter value that could not be parsed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Filter is the validated, normalized representation of a search request.
// Zero values mean "no constraint"; it is built the same way whether the
// input came from query parameters or from the intent service.
type Filter struct {
	Query    string
	Category string
	Venue    string
	Location string

	StartDate *time.Time
	EndDate   *time.Time
	MaxPrice  *float64

	// Outdoor and FamilyFriendly constrain results only when true. A caller
	// sending false gets the same inclusive behavior as omitting the flag.
	Outdoor        bool
	FamilyFriendly bool

	Limit  int
	Offset int
}

// RawFilter carries unparsed filter values. Every source (query string,
// intent service) is reduced to this form so validation cannot diverge.
type RawFilter struct {
	Query          string
	Category       string
	Venue          string
	Location       string
	StartDate      string
	EndDate        string
	MaxPrice       string
	Outdoor        string
	FamilyFriendly string
	Limit          string
	Offset         string
}

// ParseFilter validates and normalizes a RawFilter.
//
// Text fields are trimmed; empty means absent. Dates accept 2006-01-02 or
// RFC 3339. The limit is clamped into [1, bounds.Max] and never rejected;
// every other malformed value returns a *ValidationError.
func ParseFilter(raw RawFilter, bounds Bounds) (Filter, error) {
	f := Filter{
		Query:    strings.TrimSpace(raw.Query),
		Category: strings.TrimSpace(raw.Category),
		Venue:    strings.TrimSpace(raw.Venue),
		Location: strings.TrimSpace(raw.Location),
		Limit:    bounds.Default,
	}

	start, err := parseDate("start_date", raw.StartDate)
	if err != nil {
		return Filter{}, err
	}
	f.StartDate = start

	end, err := parseDate("end_date", raw.EndDate)
	if err != nil {
		return Filter{}, err
	}
	f.EndDate = end

	if v := strings.TrimSpace(raw.MaxPrice); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Filter{}, &ValidationError{Field: "price_max", Reason: "must be a number"}
		}
		if price < 0 {
			return Filter{}, &ValidationError{Field: "price_max", Reason: "must not be negative"}
		}
		f.MaxPrice = &price
	}

	outdoor, err := parseFlag("outdoor", raw.Outdoor)
	if err != nil {
		return Filter{}, err
	}
	f.Outdoor = outdoor

	familyFriendly, err := parseFlag("family_friendly", raw.FamilyFriendly)
	if err != nil {
		return Filter{}, err
	}
	f.FamilyFriendly = familyFriendly

	if v := strings.TrimSpace(raw.Limit); v != "" {
		// A bad limit means the caller wants "a lot", not an error.
		if limit, err := strconv.Atoi(v); err == nil {
			f.Limit = clampLimit(limit, bounds)
		}
	}

	if v := strings.TrimSpace(raw.Offset); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return Filter{}, &ValidationError{Field: "offset", Reason: "must be an integer"}
		}
		if offset < 0 {
			return Filter{}, &ValidationError{Field: "offset", Reason: "must not be negative"}
		}
		f.Offset = offset
	}

	return f, nil
}

// FilterFromQuery builds a Filter from HTTP query parameters.
func FilterFromQuery(values url.Values, bounds Bounds) (Filter, error) {
	return ParseFilter(RawFilter{
		Query:          values.Get("q"),
		Category:       values.Get("category"),
		Venue:          values.Get("venue"),
		Location:       values.Get("location"),
		StartDate:      values.Get("start_date"),
		EndDate:        values.Get("end_date"),
		MaxPrice:       values.Get("price_max"),
		Outdoor:        values.Get("outdoor"),
		FamilyFriendly: values.Get("family_friendly"),
		Limit:          values.Get("limit"),
		Offset:         values.Get("offset"),
	}, bounds)
}

// ListFilter returns a Filter that only constrains the result count, for
// plain listing endpoints. It shares the clamping rules with ParseFilter.
func ListFilter(rawLimit string, bounds Bounds) Filter {
	f := Filter{Limit: bounds.Default}
	if v := strings.TrimSpace(rawLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			f.Limit = clampLimit(limit, bounds)
		}
	}
	return f
}

func parseDate(field, value string) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, &ValidationError{Field: field, Reason: "must be a date (2006-01-02) or RFC 3339 timestamp"}
}

func parseFlag(field, value string) (bool, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ValidationError{Field: field, Reason: "must be true or false"}
	}
	return b, nil
}

func clampLimit(limit int, bounds Bounds) int {
	if limit < 1 {
		return 1
	}
	if limit > bounds.Max {
		return bounds.Max
	}
	return limit
}
