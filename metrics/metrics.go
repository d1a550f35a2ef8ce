package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the catalogue.
type Metrics struct {
	// StatusCounts maps status name to the number of books in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Total is the number of books in the store
	Total int64 `json:"total"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from a book store.
type Collector interface {
	// Collect gathers current metrics
	Collect(ctx context.Context) (Metrics, error)

	// GetStatusCounts returns the count of books by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)
}
