// Package query implements the dashboard's filtering and aggregation
// pipeline: raw tickets plus a filter spec in, metrics, categorical
// breakdowns and time-bucketed series out. Evaluation is a pure function
// of its inputs and the injected clock; nothing is cached between calls.
package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/deskview/deskview/internal/domain"
)

// newTicketWindow is how far back from "now" a ticket still counts as new.
const newTicketWindow = 30 * 24 * time.Hour

// Clock abstracts wall-clock time so the NewTickets metric is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock frozen at ts.
func FixedClock(ts time.Time) Clock { return fixedClock(ts) }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// Engine evaluates filter specs against an in-memory ticket collection.
type Engine struct {
	clock Clock
}

// NewEngine creates an engine. A nil clock falls back to the system clock.
func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{clock: clock}
}

// Evaluate runs the full pipeline for one filter spec. Empty datasets and
// empty match sets are valid degenerate inputs and produce zeroed results;
// only a structurally invalid spec is an error.
func (e *Engine) Evaluate(tickets []domain.Ticket, spec domain.FilterSpec) (*domain.QueryResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if spec.Matches(t) {
			filtered = append(filtered, t)
		}
	}

	result := &domain.QueryResult{
		Tickets:    filtered,
		Metrics:    e.metrics(filtered),
		ByCategory: breakdown(filtered, func(t domain.Ticket) string { return t.Category }),
		ByPriority: breakdown(filtered, func(t domain.Ticket) string { return t.Priority }),
		ByStatus:   breakdown(filtered, func(t domain.Ticket) string { return t.Status }),
		TimeFrame:  spec.TimeFrame,
	}
	result.TotalSeries = series(filtered, spec.TimeFrame, func(domain.Ticket) bool { return true })
	result.ActiveSeries = series(filtered, spec.TimeFrame, domain.Ticket.IsActive)
	result.ClosedSeries = series(filtered, spec.TimeFrame, domain.Ticket.IsClosed)

	return result, nil
}

func (e *Engine) metrics(filtered []domain.Ticket) domain.Metrics {
	m := domain.Metrics{TotalTickets: len(filtered)}

	newCutoff := e.clock.Now().Add(-newTicketWindow)
	for _, t := range filtered {
		if t.IsActive() {
			m.ActiveTickets++
		}
		if t.IsClosed() {
			m.ClosedTickets++
		}
		if t.CreatedAt.After(newCutoff) {
			m.NewTickets++
		}
	}

	if m.TotalTickets > 0 {
		m.ClosureRate = float64(m.ClosedTickets) / float64(m.TotalTickets) * 100
	}
	return m
}

// breakdown counts occurrences of one categorical dimension, preserving
// first-occurrence order.
func breakdown(tickets []domain.Ticket, key func(domain.Ticket) string) domain.Breakdown {
	index := make(map[string]int, 8)
	out := make(domain.Breakdown, 0, 8)
	for _, t := range tickets {
		v := key(t)
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, domain.BreakdownEntry{Value: v, Count: 1})
	}
	return out
}

// series buckets the tickets that satisfy include by the time frame's
// calendar period, ordered chronologically. Buckets with no matching
// tickets are omitted entirely.
func series(tickets []domain.Ticket, tf domain.TimeFrame, include func(domain.Ticket) bool) domain.Series {
	index := make(map[time.Time]int, 16)
	out := make(domain.Series, 0, 16)
	for _, t := range tickets {
		if !include(t) {
			continue
		}
		start, label := bucket(tf, t.CreatedAt)
		if i, ok := index[start]; ok {
			out[i].Count++
			continue
		}
		index[start] = len(out)
		out = append(out, domain.TimeBucket{Label: label, Start: start, Count: 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// bucket maps a creation timestamp to its period's start instant and
// display label.
func bucket(tf domain.TimeFrame, ts time.Time) (time.Time, string) {
	y, m, d := ts.Date()
	switch tf {
	case domain.TimeFrameDaily:
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return start, start.Format("2006-01-02")
	case domain.TimeFrameMonthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return start, start.Format("Jan 2006")
	case domain.TimeFrameQuarterly:
		q := (int(m) - 1) / 3
		start := time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
		return start, fmt.Sprintf("%dQ%d", y, q+1)
	default: // Yearly; FilterSpec.Validate rules out anything else
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.Format("2006")
	}
}
