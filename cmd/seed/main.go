// Command seed writes a randomized sample ticket dataset, useful for local
// development and demos.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
)

var (
	categories = []string{"Network", "Hardware", "Software", "Account", "Other"}
	priorities = []string{"Low", "Medium", "High", "Critical"}
	statuses   = []string{"Open", "In Progress", "On Hold", "Closed"}
)

func main() {
	var (
		path  = flag.String("out", "service_ticket_details.csv", "output CSV path")
		count = flag.Int("count", 500, "number of tickets to generate")
		days  = flag.Int("days", 365, "spread of created dates, counting back from today")
		seed  = flag.Int64("seed", 0, "random seed (0 uses the current time)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*path)
	if err != nil {
		log.Fatalf("create %s: %v", *path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"TicketID", "Category", "Priority", "Status", "CreatedDate", "ClosedDate"}); err != nil {
		log.Fatalf("write header: %v", err)
	}

	now := time.Now()
	for i := 0; i < *count; i++ {
		created := now.Add(-time.Duration(rng.Intn(*days*24)) * time.Hour)
		status := statuses[rng.Intn(len(statuses))]

		closed := ""
		if status == "Closed" {
			closedAt := created.Add(time.Duration(1+rng.Intn(14*24)) * time.Hour)
			closed = closedAt.Format("2006-01-02 15:04:05")
		}

		record := []string{
			uuid.NewString(),
			categories[rng.Intn(len(categories))],
			priorities[rng.Intn(len(priorities))],
			status,
			created.Format("2006-01-02 15:04:05"),
			closed,
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("write record: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	fmt.Printf("wrote %d tickets to %s (seed %d)\n", *count, *path, *seed)
}
