package assistant

import (
	"context"
	"errors"
	"testing"

	"eventscout/internal/intent"
	"eventscout/internal/search"
	"eventscout/internal/store"
)

type fakeParser struct {
	filter search.Filter
	err    error
}

func (f fakeParser) ParseIntent(ctx context.Context, message string) (search.Filter, error) {
	return f.filter, f.err
}

func (f fakeParser) Healthy(ctx context.Context) error {
	return f.err
}

type fakeSearcher struct {
	events     []store.Event
	err        error
	lastFilter search.Filter
}

func (f *fakeSearcher) Search(ctx context.Context, filter search.Filter) ([]store.Event, error) {
	f.lastFilter = filter
	return f.events, f.err
}

func TestSearchRunsExtractedFilter(t *testing.T) {
	filter := search.Filter{Query: "jazz", Limit: 50}
	searcher := &fakeSearcher{events: []store.Event{{Title: "Jazz Night"}}}

	svc := New(fakeParser{filter: filter}, searcher)

	got, events, err := svc.Search(context.Background(), "jazz tonight")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got.Query != "jazz" {
		t.Fatalf("unexpected filter: %#v", got)
	}
	if searcher.lastFilter.Query != "jazz" {
		t.Fatalf("expected extracted filter passed to search, got %#v", searcher.lastFilter)
	}
	if len(events) != 1 || events[0].Title != "Jazz Night" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestSearchPropagatesParserFailure(t *testing.T) {
	svc := New(fakeParser{err: intent.ErrUnavailable}, &fakeSearcher{})

	_, _, err := svc.Search(context.Background(), "jazz tonight")
	if !errors.Is(err, intent.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
