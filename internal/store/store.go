package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEventNotFound indicates a lookup by id matched no event.
	ErrEventNotFound = errors.New("event not found")
	// ErrVenueNotFound indicates a lookup by id matched no venue.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrUserNotFound indicates a lookup by id matched no user.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates another user already registered the email.
	ErrEmailTaken = errors.New("email already registered")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
