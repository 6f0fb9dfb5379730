package domain

import (
	"time"
)

// Well-known status values. Status is an open set: datasets may carry
// statuses beyond these, and such tickets count toward totals only.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusOnHold     = "On Hold"
	StatusClosed     = "Closed"
)

// activeStatuses are the statuses that mark a ticket as still being worked.
var activeStatuses = map[string]struct{}{
	StatusOpen:       {},
	StatusInProgress: {},
	StatusOnHold:     {},
}

// Ticket represents one service-request record from the dataset. All
// categorical fields are opaque strings; only the two dates are typed.
type Ticket struct {
	ID        string     `json:"id"`
	Category  string     `json:"category"`
	Priority  string     `json:"priority"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_date"`
	ClosedAt  *time.Time `json:"closed_date,omitempty"`
}

// IsActive reports whether the ticket's status is one of Open, In Progress
// or On Hold.
func (t Ticket) IsActive() bool {
	_, ok := activeStatuses[t.Status]
	return ok
}

// IsClosed reports whether the ticket's status is Closed.
func (t Ticket) IsClosed() bool {
	return t.Status == StatusClosed
}

// CreatedDate returns the calendar date of CreatedAt, normalized to
// midnight UTC so it can be compared against filter bounds.
func (t Ticket) CreatedDate() time.Time {
	return DateOnly(t.CreatedAt)
}

// DateOnly truncates a timestamp to its calendar date at midnight UTC.
func DateOnly(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
