package search

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestParseFilterNormalizesText(t *testing.T) {
	f, err := ParseFilter(RawFilter{
		Query:    "  jazz night ",
		Venue:    " Cain's Ballroom ",
		Location: "   ",
	}, SearchBounds)
	if err != nil {
		t.Fatalf("ParseFilter error: %v", err)
	}

	if f.Query != "jazz night" {
		t.Fatalf("expected trimmed query, got %q", f.Query)
	}
	if f.Venue != "Cain's Ballroom" {
		t.Fatalf("expected trimmed venue, got %q", f.Venue)
	}
	if f.Location != "" {
		t.Fatalf("expected blank location to be absent, got %q", f.Location)
	}
	if f.Limit != SearchBounds.Default {
		t.Fatalf("expected default limit %d, got %d", SearchBounds.Default, f.Limit)
	}
	if f.Offset != 0 {
		t.Fatalf("expected default offset 0, got %d", f.Offset)
	}
}

func TestParseFilterDates(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", raw: "2026-09-05", want: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", raw: "2026-09-05T19:30:00Z", want: time.Date(2026, 9, 5, 19, 30, 0, 0, time.UTC)},
		{name: "garbage", raw: "next friday", wantErr: true},
		{name: "us format", raw: "09/05/2026", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFilter(RawFilter{StartDate: tc.raw}, SearchBounds)
			if tc.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Field != "start_date" {
					t.Fatalf("expected start_date field, got %q", ve.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilter error: %v", err)
			}
			if f.StartDate == nil || !f.StartDate.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, f.StartDate)
			}
		})
	}
}

func TestParseFilterLimitClamping(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "0", want: 1},
		{raw: "-5", want: 1},
		{raw: "10000", want: SearchBounds.Max},
		{raw: "25", want: 25},
		{raw: "", want: SearchBounds.Default},
		{raw: "lots", want: SearchBounds.Default},
	}

	for _, tc := range tests {
		f, err := ParseFilter(RawFilter{Limit: tc.raw}, SearchBounds)
		if err != nil {
			t.Fatalf("limit %q: unexpected error %v", tc.raw, err)
		}
		if f.Limit != tc.want {
			t.Fatalf("limit %q: expected %d, got %d", tc.raw, tc.want, f.Limit)
		}
		if f.Limit < 1 || f.Limit > SearchBounds.Max {
			t.Fatalf("limit %q: %d outside [1, %d]", tc.raw, f.Limit, SearchBounds.Max)
		}
	}
}

func TestParseFilterRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawFilter
		field string
	}{
		{name: "negative offset", raw: RawFilter{Offset: "-1"}, field: "offset"},
		{name: "non-numeric offset", raw: RawFilter{Offset: "ten"}, field: "offset"},
		{name: "negative price", raw: RawFilter{MaxPrice: "-3.50"}, field: "price_max"},
		{name: "non-numeric price", raw: RawFilter{MaxPrice: "cheap"}, field: "price_max"},
		{name: "bad outdoor flag", raw: RawFilter{Outdoor: "yep"}, field: "outdoor"},
		{name: "bad family flag", raw: RawFilter{FamilyFriendly: "si"}, field: "family_friendly"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilter(tc.raw, SearchBounds)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestParseFilterFlags(t *testing.T) {
	f, err := ParseFilter(RawFilter{Outdoor: "true", FamilyFriendly: "false"}, SearchBounds)
	if err != nil {
		t.Fatalf("ParseFilter error: %v", err)
	}
	if !f.Outdoor {
		t.Fatal("expected outdoor constraint")
	}
	if f.FamilyFriendly {
		t.Fatal("family_friendly=false must not constrain")
	}
}

func TestFilterFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("q", "symphony")
	values.Set("category", "concerts")
	values.Set("price_max", "40")
	values.Set("limit", "10")
	values.Set("offset", "20")

	f, err := FilterFromQuery(values, SearchBounds)
	if err != nil {
		t.Fatalf("FilterFromQuery error: %v", err)
	}

	if f.Query != "symphony" || f.Category != "concerts" {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f.MaxPrice == nil || *f.MaxPrice != 40 {
		t.Fatalf("expected max price 40, got %v", f.MaxPrice)
	}
	if f.Limit != 10 || f.Offset != 20 {
		t.Fatalf("expected limit 10 offset 20, got %d/%d", f.Limit, f.Offset)
	}
}

func TestListFilter(t *testing.T) {
	f := ListFilter("", VenueListBounds)
	if f.Limit != 500 {
		t.Fatalf("expected default 500, got %d", f.Limit)
	}
	f = ListFilter("99999", VenueListBounds)
	if f.Limit != 1000 {
		t.Fatalf("expected cap 1000, got %d", f.Limit)
	}
}
