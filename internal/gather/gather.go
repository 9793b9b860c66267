// Package gather defines the interface for historical data acquisition
// jobs.
package gather

import "context"

// Gatherer is the interface for all data gathering processes.
type Gatherer interface {
	// Name returns the gatherer identifier.
	Name() string
	// Run starts the data gathering process. It returns when the job is
	// complete or ctx is cancelled.
	Run(ctx context.Context) error
}
