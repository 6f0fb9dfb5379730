package domain

import (
	"time"
)

// TimeFrame selects the bucket granularity for time-series aggregation.
type TimeFrame string

const (
	TimeFrameDaily     TimeFrame = "Daily"
	TimeFrameMonthly   TimeFrame = "Monthly"
	TimeFrameQuarterly TimeFrame = "Quarterly"
	TimeFrameYearly    TimeFrame = "Yearly"
)

// Valid reports whether tf is one of the four supported granularities.
func (tf TimeFrame) Valid() bool {
	switch tf {
	case TimeFrameDaily, TimeFrameMonthly, TimeFrameQuarterly, TimeFrameYearly:
		return true
	}
	return false
}

// FilterSpec narrows which tickets a query considers. Date bounds are
// inclusive and compared at calendar-date granularity against CreatedAt.
// The selection slices are exact allow-lists: an empty slice matches
// nothing. Callers that want "everything" must pass the full distinct
// value sets (see DefaultFilter on the dashboard use case).
type FilterSpec struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Categories []string  `json:"categories"`
	Priorities []string  `json:"priorities"`
	Statuses   []string  `json:"statuses"`
	TimeFrame  TimeFrame `json:"time_frame"`
}

// Validate checks the spec for structural consistency. It never clamps or
// repairs: an inverted date range or unknown time frame is the caller's
// bug and is reported as an InvalidFilterError.
func (s FilterSpec) Validate() error {
	if s.StartDate.After(s.EndDate) {
		return &InvalidFilterError{Reason: "start date is after end date"}
	}
	if !s.TimeFrame.Valid() {
		return &InvalidFilterError{Reason: "unknown time frame: " + string(s.TimeFrame)}
	}
	return nil
}

// Matches reports whether the ticket passes every constraint in the spec.
// Date bounds are checked against the ticket's calendar date; time of day
// is discarded.
func (s FilterSpec) Matches(t Ticket) bool {
	d := t.CreatedDate()
	if d.Before(DateOnly(s.StartDate)) || d.After(DateOnly(s.EndDate)) {
		return false
	}
	return contains(s.Categories, t.Category) &&
		contains(s.Priorities, t.Priority) &&
		contains(s.Statuses, t.Status)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
