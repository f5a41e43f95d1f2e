package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User is a person browsing events. There are no credentials; the record
// exists to anchor preferences and interaction history.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	LocationPreference *string   `json:"location_preference"`
	CreatedAt          time.Time `json:"created_at"`
}

// UserPreference is a weighted category interest. One row per user and
// category; setting it again replaces the weight.
type UserPreference struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Category  string    `json:"category"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInteraction records that a user viewed, saved, or attended an event.
type UserInteraction struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	EventID         uuid.UUID `json:"event_id"`
	InteractionType string    `json:"interaction_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// InteractionSummary is an interaction joined with the event it touched,
// for profile views.
type InteractionSummary struct {
	InteractionType string    `json:"interaction_type"`
	EventTitle      string    `json:"event_title"`
	EventCategories []string  `json:"event_categories"`
	CreatedAt       time.Time `json:"created_at"`
}

const userColumns = `id, email, name, location_preference, created_at`

const preferenceColumns = `id, user_id, category, weight, created_at`

// CreateUser inserts a new user. Emails are unique; a duplicate returns
// ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, email, name, location_preference, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + userColumns + `
	`

	row := s.db.QueryRowContext(ctx, query, u.ID, u.Email, u.Name, u.LocationPreference)
	stored, err := scanUser(row)
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return stored, nil
}

// GetUser retrieves a single user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}

	return u, nil
}

// ListPreferences returns all category preferences for a user.
func (s *Store) ListPreferences(ctx context.Context, userID uuid.UUID) ([]UserPreference, error) {
	query := `
		SELECT ` + preferenceColumns + `
		FROM user_preferences
		WHERE user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select preferences: %w", err)
	}
	defer rows.Close()

	prefs := make([]UserPreference, 0)
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}

	return prefs, nil
}

// UpsertPreference sets a user's weight for a category, replacing any
// previous weight for the same category.
func (s *Store) UpsertPreference(ctx context.Context, p UserPreference) (UserPreference, error) {
	if err := s.userExists(ctx, p.UserID); err != nil {
		return UserPreference{}, err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO user_preferences (id, user_id, category, weight, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, category) DO UPDATE SET weight = EXCLUDED.weight
		RETURNING ` + preferenceColumns + `
	`

	row := s.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Category, p.Weight)
	stored, err := scanPreference(row)
	if err != nil {
		return UserPreference{}, fmt.Errorf("upsert preference: %w", err)
	}

	return stored, nil
}

// ListInteractions returns a user's interactions, newest first.
func (s *Store) ListInteractions(ctx context.Context, userID uuid.UUID) ([]UserInteraction, error) {
	query := `
		SELECT id, user_id, event_id, interaction_type, created_at
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select interactions: %w", err)
	}
	defer rows.Close()

	interactions := make([]UserInteraction, 0)
	for rows.Next() {
		var i UserInteraction
		if err := rows.Scan(&i.ID, &i.UserID, &i.EventID, &i.InteractionType, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}

// AddInteraction records an interaction after checking both sides exist.
func (s *Store) AddInteraction(ctx context.Context, i UserInteraction) (UserInteraction, error) {
	if err := s.userExists(ctx, i.UserID); err != nil {
		return UserInteraction{}, err
	}

	var eventExists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`,
		i.EventID).Scan(&eventExists)
	if err != nil {
		return UserInteraction{}, fmt.Errorf("check event exists: %w", err)
	}
	if !eventExists {
		return UserInteraction{}, ErrEventNotFound
	}

	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	query := `
		INSERT INTO user_interactions (id, user_id, event_id, interaction_type, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, event_id, interaction_type, created_at
	`

	row := s.db.QueryRowContext(ctx, query, i.ID, i.UserID, i.EventID, i.InteractionType)
	var stored UserInteraction
	if err := row.Scan(&stored.ID, &stored.UserID, &stored.EventID, &stored.InteractionType, &stored.CreatedAt); err != nil {
		return UserInteraction{}, fmt.Errorf("insert interaction: %w", err)
	}

	return stored, nil
}

// RecentInteractions returns a user's latest interactions joined with the
// events they touched.
func (s *Store) RecentInteractions(ctx context.Context, userID uuid.UUID, limit int) ([]InteractionSummary, error) {
	query := `
		SELECT ui.interaction_type, e.title, e.categories, ui.created_at
		FROM user_interactions ui
		JOIN events e ON e.id = ui.event_id
		WHERE ui.user_id = $1
		ORDER BY ui.created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent interactions: %w", err)
	}
	defer rows.Close()

	summaries := make([]InteractionSummary, 0)
	for rows.Next() {
		var is InteractionSummary
		if err := rows.Scan(&is.InteractionType, &is.EventTitle, pq.Array(&is.EventCategories), &is.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent interaction: %w", err)
		}
		summaries = append(summaries, is)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent interactions: %w", err)
	}

	return summaries, nil
}

func (s *Store) userExists(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.LocationPreference, &u.CreatedAt)
	return u, err
}

func scanPreference(row rowScanner) (UserPreference, error) {
	var p UserPreference
	err := row.Scan(&p.ID, &p.UserID, &p.Category, &p.Weight, &p.CreatedAt)
	return p, err
}
