package events

import (
	"context"
	"time"

	"eventscout/internal/search"
	"eventscout/internal/store"

	"github.com/google/uuid"
)

// Store defines persistence operations for events
type Store interface {
	SearchEvents(ctx context.Context, q search.Query) ([]store.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (store.Event, error)
	UpsertEvent(ctx context.Context, e store.Event) (store.Event, bool, error)
}

// Service coordinates event discovery and ingestion
type Service interface {
	Search(ctx context.Context, filter search.Filter) ([]store.Event, error)
	List(ctx context.Context, rawLimit string) ([]store.Event, error)
	Get(ctx context.Context, id uuid.UUID) (store.Event, error)
	Ingest(ctx context.Context, e store.Event) (store.Event, bool, error)
}

type service struct {
	store Store
}

// New constructs an events Service backed by the provided Store
func New(st Store) Service {
	return &service{store: st}
}

// Search compiles the filter and runs it. Listing, search, and assistant
// queries all funnel through this one path so their semantics cannot drift.
func (s *service) Search(ctx context.Context, filter search.Filter) ([]store.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SearchEvents(ctx, search.Compile(filter, time.Now().UTC()))
}

func (s *service) List(ctx context.Context, rawLimit string) ([]store.Event, error) {
	return s.Search(ctx, search.ListFilter(rawLimit, search.EventListBounds))
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.Event, error) {
	if err := ctx.Err(); err != nil {
		return store.Event{}, err
	}
	return s.store.GetEvent(ctx, id)
}

func (s *service) Ingest(ctx context.Context, e store.Event) (store.Event, bool, error) {
	if err := ctx.Err(); err != nil {
		return store.Event{}, false, err
	}
	return s.store.UpsertEvent(ctx, e)
}
