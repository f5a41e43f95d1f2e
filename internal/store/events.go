package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventscout/internal/search"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event is a scraped local event. The generated id is its identity; the
// source_url is the natural key that deduplicates re-scrapes.
type Event struct {
	ID             uuid.UUID  `json:"id"`
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
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

const eventColumns = `id, title, description, venue, venue_address, location,
		       source_url, source_name, start_time, end_time, categories,
		       price_min, price_max, outdoor, family_friendly, image_url,
		       created_at, updated_at`

// SearchEvents executes a compiled filter query.
func (s *Store) SearchEvents(ctx context.Context, q search.Query) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		` + q.SQL()

	rows, err := s.db.QueryContext(ctx, query, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()

	events, err := scanEventRows(rows)
	if err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// GetEvent retrieves a single event by id.
func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		return Event{}, fmt.Errorf("select event: %w", err)
	}

	return e, nil
}

// UpsertEvent inserts the event, or fully overwrites the stored row when
// its source_url already exists. The scraper re-supplies the complete
// record on every crawl, so every mutable field takes the incoming value;
// only the identity and created_at survive a merge. The returned bool is
// true when a new row was created.
//
// Deduplication itself is enforced by the unique source_url constraint and
// the atomic ON CONFLICT clause, not by the existence pre-check; the check
// only decides which status the caller should report.
func (s *Store) UpsertEvent(ctx context.Context, e Event) (Event, bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE source_url = $1)`,
		e.SourceURL).Scan(&exists)
	if err != nil {
		return Event{}, false, fmt.Errorf("check event exists: %w", err)
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	// A nil slice would bind as SQL NULL; the column is NOT NULL.
	if e.Categories == nil {
		e.Categories = []string{}
	}

	query := `
		INSERT INTO events (
			id, title, description, venue, venue_address, location,
			source_url, source_name, start_time, end_time, categories,
			price_min, price_max, outdoor, family_friendly, image_url,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		ON CONFLICT (source_url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			venue = EXCLUDED.venue,
			venue_address = EXCLUDED.venue_address,
			location = EXCLUDED.location,
			source_name = EXCLUDED.source_name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			categories = EXCLUDED.categories,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			outdoor = EXCLUDED.outdoor,
			family_friendly = EXCLUDED.family_friendly,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING ` + eventColumns + `
	`

	row := s.db.QueryRowContext(ctx, query,
		e.ID, e.Title, e.Description, e.Venue, e.VenueAddress, e.Location,
		e.SourceURL, e.SourceName, e.StartTime, e.EndTime, pq.Array(e.Categories),
		e.PriceMin, e.PriceMax, e.Outdoor, e.FamilyFriendly, e.ImageURL,
	)

	stored, err := scanEvent(row)
	if err != nil {
		return Event{}, false, fmt.Errorf("upsert event: %w", err)
	}

	return stored, !exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Venue, &e.VenueAddress, &e.Location,
		&e.SourceURL, &e.SourceName, &e.StartTime, &e.EndTime, pq.Array(&e.Categories),
		&e.PriceMin, &e.PriceMax, &e.Outdoor, &e.FamilyFriendly, &e.ImageURL,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanEventRows(rows *sql.Rows) ([]Event, error) {
	events := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
