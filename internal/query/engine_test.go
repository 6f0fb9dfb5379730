package query

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/deskview/deskview/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// evalClock keeps NewTickets deterministic: fixed well after every test
// ticket's creation window.
var evalClock = FixedClock(date(2025, time.January, 1))

func sampleTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T-001", Category: "Network", Priority: "High", Status: "Open", CreatedAt: date(2024, time.January, 5)},
		{ID: "T-002", Category: "Network", Priority: "Low", Status: "Closed", CreatedAt: date(2024, time.January, 20)},
		{ID: "T-003", Category: "Hardware", Priority: "High", Status: "On Hold", CreatedAt: date(2024, time.February, 10)},
	}
}

func allValuesSpec(tf domain.TimeFrame) domain.FilterSpec {
	return domain.FilterSpec{
		StartDate:  date(2024, time.January, 1),
		EndDate:    date(2024, time.February, 29),
		Categories: []string{"Network", "Hardware"},
		Priorities: []string{"High", "Low"},
		Statuses:   []string{"Open", "Closed", "On Hold"},
		TimeFrame:  tf,
	}
}

func TestEvaluateConcreteScenario(t *testing.T) {
	engine := NewEngine(evalClock)

	result, err := engine.Evaluate(sampleTickets(), allValuesSpec(domain.TimeFrameMonthly))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m := result.Metrics
	if m.TotalTickets != 3 {
		t.Errorf("Expected 3 total tickets, got %d", m.TotalTickets)
	}
	if m.ActiveTickets != 2 {
		t.Errorf("Expected 2 active tickets, got %d", m.ActiveTickets)
	}
	if m.ClosedTickets != 1 {
		t.Errorf("Expected 1 closed ticket, got %d", m.ClosedTickets)
	}
	if math.Abs(m.ClosureRate-100.0/3) > 0.01 {
		t.Errorf("Expected closure rate ~33.3, got %f", m.ClosureRate)
	}

	wantCategories := domain.Breakdown{
		{Value: "Network", Count: 2},
		{Value: "Hardware", Count: 1},
	}
	if !reflect.DeepEqual(result.ByCategory, wantCategories) {
		t.Errorf("Expected category breakdown %v, got %v", wantCategories, result.ByCategory)
	}

	if len(result.TotalSeries) != 2 {
		t.Fatalf("Expected 2 total buckets, got %d", len(result.TotalSeries))
	}
	if result.TotalSeries[0].Label != "Jan 2024" || result.TotalSeries[0].Count != 2 {
		t.Errorf("Expected first bucket {Jan 2024 2}, got %+v", result.TotalSeries[0])
	}
	if result.TotalSeries[1].Label != "Feb 2024" || result.TotalSeries[1].Count != 1 {
		t.Errorf("Expected second bucket {Feb 2024 1}, got %+v", result.TotalSeries[1])
	}
}

func TestEvaluateFilterMonotonicity(t *testing.T) {
	engine := NewEngine(evalClock)

	narrow := allValuesSpec(domain.TimeFrameMonthly)
	narrow.EndDate = date(2024, time.January, 31)
	narrow.Categories = []string{"Network"}
	narrow.Statuses = []string{"Open"}

	wide := allValuesSpec(domain.TimeFrameMonthly)

	narrowResult, err := engine.Evaluate(sampleTickets(), narrow)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	wideResult, err := engine.Evaluate(sampleTickets(), wide)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if narrowResult.Metrics.TotalTickets > wideResult.Metrics.TotalTickets {
		t.Errorf("Widening the filter reduced the match count: %d > %d",
			narrowResult.Metrics.TotalTickets, wideResult.Metrics.TotalTickets)
	}
}

func TestEvaluateConservation(t *testing.T) {
	// A status that is neither active nor closed still counts toward totals.
	tickets := append(sampleTickets(), domain.Ticket{
		ID: "T-004", Category: "Network", Priority: "Low", Status: "Escalated",
		CreatedAt: date(2024, time.February, 15),
	})
	spec := allValuesSpec(domain.TimeFrameMonthly)
	spec.Statuses = append(spec.Statuses, "Escalated")

	result, err := NewEngine(evalClock).Evaluate(tickets, spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m := result.Metrics
	if m.ActiveTickets+m.ClosedTickets > m.TotalTickets {
		t.Errorf("active (%d) + closed (%d) exceeds total (%d)", m.ActiveTickets, m.ClosedTickets, m.TotalTickets)
	}
	if m.TotalTickets != 4 {
		t.Errorf("Expected escalated ticket to count toward total, got %d", m.TotalTickets)
	}
}

func TestEvaluateClosureRateBounds(t *testing.T) {
	engine := NewEngine(evalClock)

	result, err := engine.Evaluate(nil, allValuesSpec(domain.TimeFrameMonthly))
	if err != nil {
		t.Fatalf("Unexpected error for empty dataset: %v", err)
	}
	if result.Metrics.ClosureRate != 0 {
		t.Errorf("Expected closure rate 0 for empty dataset, got %f", result.Metrics.ClosureRate)
	}

	result, err = engine.Evaluate(sampleTickets(), allValuesSpec(domain.TimeFrameMonthly))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Metrics.ClosureRate < 0 || result.Metrics.ClosureRate > 100 {
		t.Errorf("Closure rate out of bounds: %f", result.Metrics.ClosureRate)
	}
}

func TestEvaluateBucketConservation(t *testing.T) {
	for _, tf := range []domain.TimeFrame{
		domain.TimeFrameDaily,
		domain.TimeFrameMonthly,
		domain.TimeFrameQuarterly,
		domain.TimeFrameYearly,
	} {
		result, err := NewEngine(evalClock).Evaluate(sampleTickets(), allValuesSpec(tf))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tf, err)
		}
		sum := 0
		for _, b := range result.TotalSeries {
			sum += b.Count
		}
		if sum != result.Metrics.TotalTickets {
			t.Errorf("%s: bucket counts sum to %d, expected %d", tf, sum, result.Metrics.TotalTickets)
		}
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	engine := NewEngine(evalClock)
	spec := allValuesSpec(domain.TimeFrameQuarterly)

	first, err := engine.Evaluate(sampleTickets(), spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := engine.Evaluate(sampleTickets(), spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Two evaluations with identical inputs and clock differ")
	}
}

func TestEvaluateInvalidFilter(t *testing.T) {
	engine := NewEngine(evalClock)

	inverted := allValuesSpec(domain.TimeFrameMonthly)
	inverted.StartDate = date(2024, time.March, 1)
	inverted.EndDate = date(2024, time.January, 1)

	_, err := engine.Evaluate(sampleTickets(), inverted)
	if err == nil {
		t.Fatal("Expected error for inverted date range")
	}
	var ferr *domain.InvalidFilterError
	if !errors.As(err, &ferr) {
		t.Errorf("Expected InvalidFilterError, got %T", err)
	}

	badFrame := allValuesSpec(domain.TimeFrame("Weekly"))
	if _, err := engine.Evaluate(sampleTickets(), badFrame); err == nil {
		t.Error("Expected error for unknown time frame")
	}
}

func TestEvaluateNewTicketsUsesClock(t *testing.T) {
	tickets := sampleTickets()

	// Clock inside the 30-day window of the Feb 10 ticket only.
	engine := NewEngine(FixedClock(date(2024, time.March, 1)))
	result, err := engine.Evaluate(tickets, allValuesSpec(domain.TimeFrameMonthly))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Metrics.NewTickets != 1 {
		t.Errorf("Expected 1 new ticket, got %d", result.Metrics.NewTickets)
	}

	// A year later nothing is new, even though the filter window is unchanged.
	result, err = NewEngine(evalClock).Evaluate(tickets, allValuesSpec(domain.TimeFrameMonthly))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Metrics.NewTickets != 0 {
		t.Errorf("Expected 0 new tickets, got %d", result.Metrics.NewTickets)
	}
}

func TestEvaluateSeriesChronologicalOrder(t *testing.T) {
	// Source order deliberately scrambled; labels would also sort wrong
	// lexically ("Feb 2024" < "Jan 2024").
	tickets := []domain.Ticket{
		{ID: "T-1", Category: "Network", Priority: "Low", Status: "Open", CreatedAt: date(2024, time.February, 2)},
		{ID: "T-2", Category: "Network", Priority: "Low", Status: "Open", CreatedAt: date(2024, time.January, 9)},
		{ID: "T-3", Category: "Network", Priority: "Low", Status: "Open", CreatedAt: date(2024, time.December, 25)},
	}
	spec := domain.FilterSpec{
		StartDate:  date(2024, time.January, 1),
		EndDate:    date(2024, time.December, 31),
		Categories: []string{"Network"},
		Priorities: []string{"Low"},
		Statuses:   []string{"Open"},
		TimeFrame:  domain.TimeFrameMonthly,
	}

	result, err := NewEngine(evalClock).Evaluate(tickets, spec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"Jan 2024", "Feb 2024", "Dec 2024"}
	if len(result.TotalSeries) != len(want) {
		t.Fatalf("Expected %d buckets, got %d", len(want), len(result.TotalSeries))
	}
	for i, label := range want {
		if result.TotalSeries[i].Label != label {
			t.Errorf("Bucket %d: expected %s, got %s", i, label, result.TotalSeries[i].Label)
		}
	}
}

func TestEvaluateActiveAndClosedSeries(t *testing.T) {
	result, err := NewEngine(evalClock).Evaluate(sampleTickets(), allValuesSpec(domain.TimeFrameMonthly))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Closed series only has the January bucket; February is omitted, not
	// zero-filled.
	if len(result.ClosedSeries) != 1 {
		t.Fatalf("Expected 1 closed bucket, got %d", len(result.ClosedSeries))
	}
	if result.ClosedSeries[0].Label != "Jan 2024" || result.ClosedSeries[0].Count != 1 {
		t.Errorf("Expected closed bucket {Jan 2024 1}, got %+v", result.ClosedSeries[0])
	}

	wantActive := []struct {
		label string
		count int
	}{{"Jan 2024", 1}, {"Feb 2024", 1}}
	if len(result.ActiveSeries) != len(wantActive) {
		t.Fatalf("Expected %d active buckets, got %d", len(wantActive), len(result.ActiveSeries))
	}
	for i, w := range wantActive {
		if result.ActiveSeries[i].Label != w.label || result.ActiveSeries[i].Count != w.count {
			t.Errorf("Active bucket %d: expected {%s %d}, got %+v", i, w.label, w.count, result.ActiveSeries[i])
		}
	}
}

func TestBucketLabels(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 13, 30, 0, 0, time.UTC)
	tests := []struct {
		tf    domain.TimeFrame
		start time.Time
		label string
	}{
		{domain.TimeFrameDaily, date(2024, time.March, 15), "2024-03-15"},
		{domain.TimeFrameMonthly, date(2024, time.March, 1), "Mar 2024"},
		{domain.TimeFrameQuarterly, date(2024, time.January, 1), "2024Q1"},
		{domain.TimeFrameYearly, date(2024, time.January, 1), "2024"},
	}

	for _, tt := range tests {
		start, label := bucket(tt.tf, ts)
		if !start.Equal(tt.start) {
			t.Errorf("%s: expected start %v, got %v", tt.tf, tt.start, start)
		}
		if label != tt.label {
			t.Errorf("%s: expected label %s, got %s", tt.tf, tt.label, label)
		}
	}

	// Fourth quarter boundary.
	_, label := bucket(domain.TimeFrameQuarterly, date(2024, time.October, 1))
	if label != "2024Q4" {
		t.Errorf("Expected 2024Q4, got %s", label)
	}
}
