package search

import (
	"fmt"
	"strings"
	"time"
)

// Query is a compiled filter: a WHERE/ORDER BY/LIMIT suffix plus the bound
// values it references, in placeholder order. Executing it against the
// events table returns exactly the rows satisfying every present filter.
type Query struct {
	clauses []string
	suffix  string

	Args []any
}

// where appends a predicate fragment together with its bound values. Each
// %d verb in the fragment is filled with the placeholder index of the value
// at the same position, so fragment text and Args can never desynchronize.
func (q *Query) where(fragment string, values ...any) {
	indexes := make([]any, len(values))
	for i, v := range values {
		q.Args = append(q.Args, v)
		indexes[i] = len(q.Args)
	}
	q.clauses = append(q.clauses, fmt.Sprintf(fragment, indexes...))
}

// SQL renders the compiled suffix, ready to be appended to a SELECT over
// the events columns.
func (q Query) SQL() string {
	return "WHERE " + strings.Join(q.clauses, " AND ") + q.suffix
}

// Compile turns a Filter into a parameterized query. Every caller-supplied
// value is bound, never interpolated; the predicate text comes only from
// the static fragments below. Results are always ordered ascending by start
// time, and LIMIT/OFFSET are always the last two bound values.
//
// When no explicit start date is present the query still constrains
// start_time >= now: callers only ever see upcoming events by default.
func Compile(f Filter, now time.Time) Query {
	var q Query

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q.where("(title ILIKE $%d OR description ILIKE $%d)", like, like)
	}
	if f.Category != "" {
		q.where("$%d = ANY(categories)", f.Category)
	}
	if f.Venue != "" {
		q.where("venue ILIKE $%d", "%"+f.Venue+"%")
	}
	if f.Location != "" {
		q.where("location ILIKE $%d", "%"+f.Location+"%")
	}

	from := now.UTC()
	if f.StartDate != nil {
		from = *f.StartDate
	}
	q.where("start_time >= $%d", from)

	if f.EndDate != nil {
		q.where("start_time <= $%d", *f.EndDate)
	}

	// Events without pricing data are never excluded by a budget.
	if f.MaxPrice != nil {
		q.where("(price_min IS NULL OR price_min <= $%d)", *f.MaxPrice)
	}

	// Boolean filters only narrow when requested true; rows where the flag
	// is false or unset stay in otherwise.
	if f.Outdoor {
		q.clauses = append(q.clauses, "outdoor = TRUE")
	}
	if f.FamilyFriendly {
		q.clauses = append(q.clauses, "family_friendly = TRUE")
	}

	q.Args = append(q.Args, f.Limit)
	limitIdx := len(q.Args)
	q.Args = append(q.Args, f.Offset)
	q.suffix = fmt.Sprintf(" ORDER BY start_time ASC LIMIT $%d OFFSET $%d", limitIdx, limitIdx+1)

	return q
}
