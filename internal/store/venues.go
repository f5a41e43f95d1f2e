package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Venue is a place events happen at. The natural key is the name, compared
// case-insensitively with surrounding whitespace trimmed; venue facts come
// from multiple uncoordinated sources, so merges only ever fill gaps.
type Venue struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Address           *string   `json:"address"`
	City              *string   `json:"city"`
	Capacity          *int      `json:"capacity"`
	VenueType         *string   `json:"venue_type"`
	NoiseLevel        *string   `json:"noise_level"`
	ParkingInfo       *string   `json:"parking_info"`
	AccessibilityInfo *string   `json:"accessibility_info"`
	Website           *string   `json:"website"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	CreatedAt         time.Time `json:"created_at"`
}

// VenuePatch carries optional field updates; nil means leave unchanged.
type VenuePatch struct {
	Address           *string
	City              *string
	Capacity          *int
	VenueType         *string
	NoiseLevel        *string
	ParkingInfo       *string
	AccessibilityInfo *string
	Website           *string
	Latitude          *float64
	Longitude         *float64
}

const venueColumns = `id, name, address, city, capacity, venue_type, noise_level,
		       parking_info, accessibility_info, website, latitude, longitude,
		       created_at`

const upsertVenueQuery = `
		INSERT INTO venues (
			id, name, address, city, capacity, venue_type, noise_level,
			parking_info, accessibility_info, website, latitude, longitude,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT ((lower(btrim(name)))) DO UPDATE SET
			address = COALESCE(venues.address, EXCLUDED.address),
			city = COALESCE(venues.city, EXCLUDED.city),
			capacity = COALESCE(venues.capacity, EXCLUDED.capacity),
			venue_type = COALESCE(venues.venue_type, EXCLUDED.venue_type),
			noise_level = COALESCE(venues.noise_level, EXCLUDED.noise_level),
			parking_info = COALESCE(venues.parking_info, EXCLUDED.parking_info),
			accessibility_info = COALESCE(venues.accessibility_info, EXCLUDED.accessibility_info),
			website = COALESCE(venues.website, EXCLUDED.website),
			latitude = COALESCE(venues.latitude, EXCLUDED.latitude),
			longitude = COALESCE(venues.longitude, EXCLUDED.longitude)
		RETURNING ` + venueColumns

// ListVenues returns venues ordered by name.
func (s *Store) ListVenues(ctx context.Context, limit int) ([]Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		ORDER BY name ASC
		LIMIT $1
	`
	return s.selectVenues(ctx, query, limit)
}

// ListVenuesMissingWebsite returns venues that still need a website URL, so
// curators can link to original sources instead of aggregators.
func (s *Store) ListVenuesMissingWebsite(ctx context.Context, limit int) ([]Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE website IS NULL OR website = ''
		ORDER BY name ASC
		LIMIT $1
	`
	return s.selectVenues(ctx, query, limit)
}

// GetVenue retrieves a single venue by id.
func (s *Store) GetVenue(ctx context.Context, id uuid.UUID) (Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE id = $1
	`

	v, err := scanVenue(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Venue{}, ErrVenueNotFound
	}
	if err != nil {
		return Venue{}, fmt.Errorf("select venue: %w", err)
	}

	return v, nil
}

// UpsertVenue inserts the venue, or fills gaps on the row whose normalized
// name already exists. A stored field that is non-null is never overwritten
// by this path; incoming values only land where the row has nothing yet.
// The returned bool is true when a new row was created.
//
// The unique index on lower(btrim(name)) plus the ON CONFLICT clause make
// concurrent writers for the same name converge on one row; the existence
// pre-check only decides the caller-facing created/merged distinction.
func (s *Store) UpsertVenue(ctx context.Context, v Venue) (Venue, bool, error) {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return Venue{}, false, fmt.Errorf("venue name is required")
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM venues WHERE lower(btrim(name)) = lower(btrim($1)))`,
		name).Scan(&exists)
	if err != nil {
		return Venue{}, false, fmt.Errorf("check venue exists: %w", err)
	}

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	row := s.db.QueryRowContext(ctx, upsertVenueQuery,
		v.ID, name, v.Address, v.City, v.Capacity, v.VenueType, v.NoiseLevel,
		v.ParkingInfo, v.AccessibilityInfo, v.Website, v.Latitude, v.Longitude,
	)

	stored, err := scanVenue(row)
	if err != nil {
		return Venue{}, false, fmt.Errorf("upsert venue: %w", err)
	}

	return stored, !exists, nil
}

// PatchVenue applies a manual correction to a venue by id. Unlike the
// scrape-driven upsert merge, a provided value overwrites the stored one;
// omitted (nil) fields are left unchanged.
func (s *Store) PatchVenue(ctx context.Context, id uuid.UUID, patch VenuePatch) (Venue, error) {
	query := `
		UPDATE venues
		SET address = COALESCE($2, address),
		    city = COALESCE($3, city),
		    capacity = COALESCE($4, capacity),
		    venue_type = COALESCE($5, venue_type),
		    noise_level = COALESCE($6, noise_level),
		    parking_info = COALESCE($7, parking_info),
		    accessibility_info = COALESCE($8, accessibility_info),
		    website = COALESCE($9, website),
		    latitude = COALESCE($10, latitude),
		    longitude = COALESCE($11, longitude)
		WHERE id = $1
		RETURNING ` + venueColumns + `
	`

	row := s.db.QueryRowContext(ctx, query,
		id, patch.Address, patch.City, patch.Capacity, patch.VenueType,
		patch.NoiseLevel, patch.ParkingInfo, patch.AccessibilityInfo,
		patch.Website, patch.Latitude, patch.Longitude,
	)

	v, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Venue{}, ErrVenueNotFound
	}
	if err != nil {
		return Venue{}, fmt.Errorf("patch venue: %w", err)
	}

	return v, nil
}

func (s *Store) selectVenues(ctx context.Context, query string, limit int) ([]Venue, error) {
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select venues: %w", err)
	}
	defer rows.Close()

	venues := make([]Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venues: %w", err)
	}

	return venues, nil
}

func scanVenue(row rowScanner) (Venue, error) {
	var v Venue
	err := row.Scan(
		&v.ID, &v.Name, &v.Address, &v.City, &v.Capacity, &v.VenueType,
		&v.NoiseLevel, &v.ParkingInfo, &v.AccessibilityInfo, &v.Website,
		&v.Latitude, &v.Longitude, &v.CreatedAt,
	)
	return v, err
}
