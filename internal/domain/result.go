package domain

import (
	"time"
)

// Metrics are the four headline numbers shown on the dashboard cards.
// ClosureRate is a percentage in [0,100], unrounded; it is defined as 0
// (not NaN) when TotalTickets is 0. NewTickets compares CreatedAt against
// the evaluation clock's last 30 days regardless of the filter's date
// window; that asymmetry is inherited behavior, see DESIGN.md.
type Metrics struct {
	TotalTickets  int     `json:"total_tickets"`
	ActiveTickets int     `json:"active_tickets"`
	NewTickets    int     `json:"new_tickets"`
	ClosedTickets int     `json:"closed_tickets"`
	ClosureRate   float64 `json:"closure_rate"`
}

// BreakdownEntry is one slice of a categorical breakdown.
type BreakdownEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Breakdown maps each distinct value present in the filtered set to its
// occurrence count, ordered by first occurrence. Values absent from the
// filtered set are omitted, never zero-filled.
type Breakdown []BreakdownEntry

// TimeBucket is one point of a time series. Start is the first instant of
// the bucket's calendar period and carries the chronological ordering that
// the display label alone cannot ("Feb 2024" sorts before "Jan 2024"
// lexically).
type TimeBucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// Series is a chronologically ordered sequence of buckets. Periods with no
// matching tickets are omitted, so gaps are possible.
type Series []TimeBucket

// QueryResult is the full derived output for one filter evaluation. It has
// no identity of its own: it is recomputed from scratch whenever the
// filter changes and carries no incremental state.
type QueryResult struct {
	Tickets []Ticket `json:"tickets,omitempty"`

	Metrics Metrics `json:"metrics"`

	ByCategory Breakdown `json:"by_category"`
	ByPriority Breakdown `json:"by_priority"`
	ByStatus   Breakdown `json:"by_status"`

	TimeFrame    TimeFrame `json:"time_frame"`
	TotalSeries  Series    `json:"total_series"`
	ActiveSeries Series    `json:"active_series"`
	ClosedSeries Series    `json:"closed_series"`
}
