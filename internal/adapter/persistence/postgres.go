// Package persistence provides the Postgres-backed ticket source, used
// when the dataset lives in a database instead of a CSV export.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deskview/deskview/internal/domain"
)

// PostgresTicketSource loads tickets from a Postgres table with the same
// columns as the CSV dataset. The table is read-only to this service.
type PostgresTicketSource struct {
	db *sql.DB
}

// NewPostgresTicketSource wraps an open database handle.
func NewPostgresTicketSource(db *sql.DB) *PostgresTicketSource {
	return &PostgresTicketSource{db: db}
}

// LoadTickets reads the whole tickets table ordered by creation time.
// created_date is NOT NULL in the schema; a NULL anyway is treated the
// same as an unparsable CSV value and fails the load.
func (s *PostgresTicketSource) LoadTickets(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
		SELECT ticket_id, category, priority, status, created_date, closed_date
		FROM tickets
		ORDER BY created_date, ticket_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	row := 0
	for rows.Next() {
		row++
		var (
			t       domain.Ticket
			created sql.NullTime
			closed  sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.Category, &t.Priority, &t.Status, &created, &closed); err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}

		if !created.Valid {
			return nil, &domain.MalformedInputError{Row: row, Field: "created_date", Err: fmt.Errorf("null created_date")}
		}
		t.CreatedAt = created.Time
		if closed.Valid {
			ts := closed.Time
			t.ClosedAt = &ts
		}

		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}
