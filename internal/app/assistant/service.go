package assistant

import (
	"context"

	"eventscout/internal/search"
	"eventscout/internal/store"
)

// IntentParser extracts a search filter from a natural-language message.
type IntentParser interface {
	ParseIntent(ctx context.Context, message string) (search.Filter, error)
	Healthy(ctx context.Context) error
}

// EventSearcher runs a validated filter against the event catalogue.
type EventSearcher interface {
	Search(ctx context.Context, filter search.Filter) ([]store.Event, error)
}

// Service answers natural-language event queries. The extracted filter is
// returned alongside the results so clients can show what was understood.
type Service interface {
	Search(ctx context.Context, message string) (search.Filter, []store.Event, error)
	Healthy(ctx context.Context) error
}

type service struct {
	intents IntentParser
	events  EventSearcher
}

// New constructs an assistant Service
func New(intents IntentParser, events EventSearcher) Service {
	return &service{intents: intents, events: events}
}

func (s *service) Search(ctx context.Context, message string) (search.Filter, []store.Event, error) {
	if err := ctx.Err(); err != nil {
		return search.Filter{}, nil, err
	}

	filter, err := s.intents.ParseIntent(ctx, message)
	if err != nil {
		return search.Filter{}, nil, err
	}

	results, err := s.events.Search(ctx, filter)
	if err != nil {
		return search.Filter{}, nil, err
	}

	return filter, results, nil
}

func (s *service) Healthy(ctx context.Context) error {
	return s.intents.Healthy(ctx)
}
