package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/book-lending/book"
)

// BookCollector implements Collector on top of any book.Reader
type BookCollector struct {
	reader book.Reader
}

// NewBookCollector creates a collector reading from r
func NewBookCollector(r book.Reader) *BookCollector {
	return &BookCollector{reader: r}
}

// Collect gathers all metrics from the store
func (c *BookCollector) Collect(ctx context.Context) (Metrics, error) {
	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	var total int64
	for _, n := range statusCounts {
		total += n
	}

	return Metrics{
		StatusCounts: statusCounts,
		Total:        total,
		Timestamp:    time.Now(),
	}, nil
}

// GetStatusCounts returns the number of books per status; known statuses are always present
func (c *BookCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	statusCounts := map[string]int64{
		book.Available.String(): 0,
		book.Borrowed.String():  0,
	}

	all, err := c.reader.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	for _, b := range all {
		statusCounts[b.Status.String()]++
	}

	return statusCounts, nil
}
