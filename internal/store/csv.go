// Package store loads the ticket dataset into memory. Loading is a
// one-shot, synchronous operation; the returned slice is treated as
// immutable by everything downstream.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/deskview/deskview/internal/domain"
)

// Column names expected in the dataset header. TicketID is optional
// pass-through; the rest of the identifier columns are ignored.
const (
	colTicketID    = "TicketID"
	colCategory    = "Category"
	colPriority    = "Priority"
	colStatus      = "Status"
	colCreatedDate = "CreatedDate"
	colClosedDate  = "ClosedDate"
)

// timeLayouts are tried in order when parsing either date column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// CSVStore reads tickets from a CSV file on disk.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store for the dataset at path. Nothing is read
// until LoadTickets is called.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// LoadTickets parses the whole dataset in source row order. CreatedDate is
// required: any row with an unparsable value fails the entire load with a
// MalformedInputError. ClosedDate is lenient: unparsable or empty values
// resolve to absent without error. All other fields pass through as
// opaque strings.
func (s *CSVStore) LoadTickets(ctx context.Context) ([]domain.Ticket, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return readTickets(ctx, f)
}

func readTickets(ctx context.Context, r io.Reader) ([]domain.Ticket, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &domain.MalformedInputError{Row: 0, Field: "header", Err: fmt.Errorf("empty dataset")}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var tickets []domain.Ticket
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.MalformedInputError{Row: row, Field: "record", Err: err}
		}

		createdRaw := field(record, cols.created)
		created, err := parseTimestamp(createdRaw)
		if err != nil {
			return nil, &domain.MalformedInputError{Row: row, Field: colCreatedDate, Value: createdRaw, Err: err}
		}

		t := domain.Ticket{
			ID:        field(record, cols.id),
			Category:  field(record, cols.category),
			Priority:  field(record, cols.priority),
			Status:    field(record, cols.status),
			CreatedAt: created,
		}

		// Lenient policy: an unparsable ClosedDate means the ticket is
		// simply not closed yet, never a load failure.
		if closed, err := parseTimestamp(field(record, cols.closed)); err == nil {
			t.ClosedAt = &closed
		}

		tickets = append(tickets, t)
	}

	return tickets, nil
}

type columnIndex struct {
	id, category, priority, status, created, closed int
}

func indexColumns(header []string) (columnIndex, error) {
	cols := columnIndex{id: -1, category: -1, priority: -1, status: -1, created: -1, closed: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colTicketID:
			cols.id = i
		case colCategory:
			cols.category = i
		case colPriority:
			cols.priority = i
		case colStatus:
			cols.status = i
		case colCreatedDate:
			cols.created = i
		case colClosedDate:
			cols.closed = i
		}
	}

	for _, required := range []struct {
		name  string
		index int
	}{
		{colCategory, cols.category},
		{colPriority, cols.priority},
		{colStatus, cols.status},
		{colCreatedDate, cols.created},
	} {
		if required.index < 0 {
			return cols, &domain.MalformedInputError{
				Row:   0,
				Field: required.name,
				Err:   fmt.Errorf("missing column %s", required.name),
			}
		}
	}
	return cols, nil
}

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
