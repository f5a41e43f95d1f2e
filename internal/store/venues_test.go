package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var venueRowColumns = []string{
	"id", "name", "address", "city", "capacity", "venue_type", "noise_level",
	"parking_info", "accessibility_info", "website", "latitude", "longitude",
	"created_at",
}

func TestListVenues(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ` + venueColumns + `
		FROM venues
		ORDER BY name ASC
		LIMIT $1
	`)).
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows(venueRowColumns).AddRow(
			id.String(), "Cain's Ballroom", "423 N Main St", "Tulsa", 1800, "music_hall", nil,
			nil, nil, "https://cainsballroom.com", nil, nil,
			time.Now(),
		))

	venues, err := s.ListVenues(context.Background(), 500)
	if err != nil {
		t.Fatalf("ListVenues: %v", err)
	}
	if len(venues) != 1 || venues[0].Name != "Cain's Ballroom" {
		t.Fatalf("unexpected venues: %#v", venues)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListVenuesMissingWebsite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ` + venueColumns + `
		FROM venues
		WHERE website IS NULL OR website = ''
		ORDER BY name ASC
		LIMIT $1
	`)).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(venueRowColumns))

	venues, err := s.ListVenuesMissingWebsite(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListVenuesMissingWebsite: %v", err)
	}
	if len(venues) != 0 {
		t.Fatalf("expected no venues, got %#v", venues)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetVenueNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT ` + venueColumns + `
		FROM venues
		WHERE id = $1
	`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetVenue(context.Background(), id)
	if !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertVenueRequiresName(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, _, err := s.UpsertVenue(context.Background(), Venue{Name: "   "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestUpsertVenueInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	website := "https://thehall.example.com"
	v := Venue{Name: "The Hall", Website: &website}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM venues WHERE lower(btrim(name)) = lower(btrim($1)))`)).
		WithArgs("The Hall").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	storedID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO venues (`)).
		WithArgs(
			sqlmock.AnyArg(), "The Hall", nil, nil, nil, nil, nil,
			nil, nil, website, nil, nil,
		).
		WillReturnRows(sqlmock.NewRows(venueRowColumns).AddRow(
			storedID.String(), "The Hall", nil, nil, nil, nil, nil,
			nil, nil, website, nil, nil,
			time.Now(),
		))

	stored, created, err := s.UpsertVenue(context.Background(), v)
	if err != nil {
		t.Fatalf("UpsertVenue: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true for new name")
	}
	if stored.ID != storedID || stored.Name != "The Hall" {
		t.Fatalf("unexpected stored venue: %#v", stored)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A payload named "the hall " must merge into the existing "The Hall" row:
// the stored casing wins, stored facts stay put, and only missing columns
// take incoming values.
func TestUpsertVenueMergeFillsGapsOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	incomingAddress := "101 Elm St"
	incomingWebsite := "https://aggregator.example.com/the-hall"
	v := Venue{Name: "the hall ", Address: &incomingAddress, Website: &incomingWebsite}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM venues WHERE lower(btrim(name)) = lower(btrim($1)))`)).
		WithArgs("the hall").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	existingID := uuid.New()
	storedWebsite := "https://thehall.example.com"
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO venues (`)).
		WithArgs(
			sqlmock.AnyArg(), "the hall", incomingAddress, nil, nil, nil, nil,
			nil, nil, incomingWebsite, nil, nil,
		).
		WillReturnRows(sqlmock.NewRows(venueRowColumns).AddRow(
			existingID.String(), "The Hall", incomingAddress, nil, nil, nil, nil,
			nil, nil, storedWebsite, nil, nil,
			time.Now(),
		))

	stored, created, err := s.UpsertVenue(context.Background(), v)
	if err != nil {
		t.Fatalf("UpsertVenue: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for matching normalized name")
	}
	if stored.Name != "The Hall" {
		t.Fatalf("expected stored casing to win, got %q", stored.Name)
	}
	if stored.Website == nil || *stored.Website != storedWebsite {
		t.Fatalf("expected stored website preserved, got %v", stored.Website)
	}
	if stored.Address == nil || *stored.Address != incomingAddress {
		t.Fatalf("expected address gap filled, got %v", stored.Address)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Every mutable venue column must merge through COALESCE(stored, incoming)
// so curated facts are never overwritten by a later scrape.
func TestUpsertVenueMergeUsesCoalesce(t *testing.T) {
	fillOnly := []string{
		"address", "city", "capacity", "venue_type", "noise_level",
		"parking_info", "accessibility_info", "website", "latitude", "longitude",
	}

	for _, col := range fillOnly {
		clause := col + " = COALESCE(venues." + col + ", EXCLUDED." + col + ")"
		if !strings.Contains(upsertVenueQuery, clause) {
			t.Fatalf("merge clause missing fill-only update for %s", col)
		}
	}
}

func TestPatchVenueNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE venues`)).
		WillReturnError(sql.ErrNoRows)

	_, err = s.PatchVenue(context.Background(), id, VenuePatch{})
	if !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A manual patch is a correction, not a scrape merge: a provided value
// replaces the stored one, and omitted fields stay untouched.
func TestPatchVenueOverwritesProvidedFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	id := uuid.New()
	correctedWebsite := "https://thehall.example.com"
	storedAddress := "101 Elm St"

	mock.ExpectQuery(regexp.QuoteMeta(`website = COALESCE($9, website)`)).
		WithArgs(
			id, nil, nil, nil, nil,
			nil, nil, nil,
			correctedWebsite, nil, nil,
		).
		WillReturnRows(sqlmock.NewRows(venueRowColumns).AddRow(
			id.String(), "The Hall", storedAddress, nil, nil, nil, nil,
			nil, nil, correctedWebsite, nil, nil,
			time.Now(),
		))

	v, err := s.PatchVenue(context.Background(), id, VenuePatch{Website: &correctedWebsite})
	if err != nil {
		t.Fatalf("PatchVenue: %v", err)
	}
	if v.Website == nil || *v.Website != correctedWebsite {
		t.Fatalf("expected website corrected, got %v", v.Website)
	}
	if v.Address == nil || *v.Address != storedAddress {
		t.Fatalf("expected omitted address untouched, got %v", v.Address)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
