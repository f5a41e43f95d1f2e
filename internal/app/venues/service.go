package venues

import (
	"context"

	"eventscout/internal/search"
	"eventscout/internal/store"

	"github.com/google/uuid"
)

// Store defines persistence operations for venues
type Store interface {
	ListVenues(ctx context.Context, limit int) ([]store.Venue, error)
	ListVenuesMissingWebsite(ctx context.Context, limit int) ([]store.Venue, error)
	GetVenue(ctx context.Context, id uuid.UUID) (store.Venue, error)
	UpsertVenue(ctx context.Context, v store.Venue) (store.Venue, bool, error)
	PatchVenue(ctx context.Context, id uuid.UUID, patch store.VenuePatch) (store.Venue, error)
}

// Service coordinates the venue registry
type Service interface {
	List(ctx context.Context, rawLimit string, missingWebsite bool) ([]store.Venue, error)
	Get(ctx context.Context, id uuid.UUID) (store.Venue, error)
	Ingest(ctx context.Context, v store.Venue) (store.Venue, bool, error)
	Patch(ctx context.Context, id uuid.UUID, patch store.VenuePatch) (store.Venue, error)
}

type service struct {
	store Store
}

// New constructs a venues Service backed by the provided Store
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) List(ctx context.Context, rawLimit string, missingWebsite bool) ([]store.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := search.ListFilter(rawLimit, search.VenueListBounds).Limit
	if missingWebsite {
		return s.store.ListVenuesMissingWebsite(ctx, limit)
	}
	return s.store.ListVenues(ctx, limit)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.Venue, error) {
	if err := ctx.Err(); err != nil {
		return store.Venue{}, err
	}
	return s.store.GetVenue(ctx, id)
}

func (s *service) Ingest(ctx context.Context, v store.Venue) (store.Venue, bool, error) {
	if err := ctx.Err(); err != nil {
		return store.Venue{}, false, err
	}
	return s.store.UpsertVenue(ctx, v)
}

func (s *service) Patch(ctx context.Context, id uuid.UUID, patch store.VenuePatch) (store.Venue, error) {
	if err := ctx.Err(); err != nil {
		return store.Venue{}, err
	}
	return s.store.PatchVenue(ctx, id, patch)
}
