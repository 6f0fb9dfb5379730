package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/deskview/deskview/internal/domain"
	"github.com/deskview/deskview/internal/logger"
	"github.com/deskview/deskview/internal/ports"
	"github.com/deskview/deskview/internal/query"
)

// DashboardUseCase owns the loaded dataset and answers dashboard queries
// against it. The dataset is immutable between loads; Reload swaps it
// atomically under the lock so in-flight evaluations see a consistent
// snapshot.
type DashboardUseCase struct {
	source ports.TicketSource
	engine *query.Engine
	log    logger.Logger

	mu      sync.RWMutex
	tickets []domain.Ticket
}

// NewDashboardUseCase wires the use case. Call Load before serving.
func NewDashboardUseCase(source ports.TicketSource, engine *query.Engine, log logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		source: source,
		engine: engine,
		log:    log,
	}
}

// Load reads the dataset from the source. On failure the previous dataset
// (if any) is kept untouched.
func (uc *DashboardUseCase) Load(ctx context.Context) error {
	tickets, err := uc.source.LoadTickets(ctx)
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}

	uc.mu.Lock()
	uc.tickets = tickets
	uc.mu.Unlock()

	uc.log.Info(ctx, "Ticket dataset loaded", logger.Fields{"count": len(tickets)})
	return nil
}

// Reload re-reads the dataset and returns the new ticket count.
func (uc *DashboardUseCase) Reload(ctx context.Context) (int, error) {
	if err := uc.Load(ctx); err != nil {
		return 0, err
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.tickets), nil
}

// Evaluate runs the query engine over the current dataset.
func (uc *DashboardUseCase) Evaluate(ctx context.Context, spec domain.FilterSpec) (*domain.QueryResult, error) {
	uc.mu.RLock()
	tickets := uc.tickets
	uc.mu.RUnlock()

	result, err := uc.engine.Evaluate(tickets, spec)
	if err != nil {
		uc.log.Warn(ctx, "Filter evaluation rejected", logger.Fields{"reason": err.Error()})
		return nil, err
	}
	return result, nil
}

// DefaultFilter derives the filter the presentation layer starts from:
// the dataset's full created-date range, every distinct value of each
// categorical field, and a Monthly time frame. An empty dataset yields an
// empty (but valid) spec.
func (uc *DashboardUseCase) DefaultFilter() domain.FilterSpec {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	spec := domain.FilterSpec{TimeFrame: domain.TimeFrameMonthly}
	if len(uc.tickets) == 0 {
		return spec
	}

	spec.StartDate = uc.tickets[0].CreatedDate()
	spec.EndDate = spec.StartDate
	for _, t := range uc.tickets[1:] {
		d := t.CreatedDate()
		if d.Before(spec.StartDate) {
			spec.StartDate = d
		}
		if d.After(spec.EndDate) {
			spec.EndDate = d
		}
	}

	spec.Categories = distinct(uc.tickets, func(t domain.Ticket) string { return t.Category })
	spec.Priorities = distinct(uc.tickets, func(t domain.Ticket) string { return t.Priority })
	spec.Statuses = distinct(uc.tickets, func(t domain.Ticket) string { return t.Status })
	return spec
}

// TicketCount reports the size of the current dataset.
func (uc *DashboardUseCase) TicketCount() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.tickets)
}

// distinct collects unique values in first-occurrence order.
func distinct(tickets []domain.Ticket, key func(domain.Ticket) string) []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, t := range tickets {
		v := key(t)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
