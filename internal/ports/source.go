package ports

import (
	"context"

	"github.com/deskview/deskview/internal/domain"
)

// TicketSource loads the full ticket dataset. Implementations must return
// tickets in source order and must fail the whole load on a malformed
// required field rather than skipping rows.
type TicketSource interface {
	LoadTickets(ctx context.Context) ([]domain.Ticket, error)
}
