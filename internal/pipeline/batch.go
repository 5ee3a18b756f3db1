package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchCollector runs the collect stage for multiple dates concurrently.
//
// Design decision: Only collect is batched. Each date's material set is an
// independent file, so collect runs for distinct dates never contend;
// draft and publish touch shared files (notes.json, state.json) and must
// stay sequential. Backfilling drafts for collected dates is a sequential
// loop over the normal pipeline.
type BatchCollector struct {
	// runner executes each stage with its contract enforced.
	runner *Runner

	// stageFactory creates a fresh collect stage for each date.
	// A factory ensures per-date state (the deduplicator) never leaks
	// between dates.
	stageFactory func(date string) Stage

	// concurrency is the maximum number of concurrent collects.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores per-date outcomes. Access is synchronized via mutex.
	results []BatchResult
	mu      sync.Mutex
}

// BatchResult is one date's outcome in a batch collect.
type BatchResult struct {
	// Date is the collected date.
	Date string

	// Err is the collect failure, nil on success.
	Err error
}

// BatchOption configures a BatchCollector.
type BatchOption func(*BatchCollector)

// WithBatchLogger sets a custom logger for batch collection.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchCollector) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent collects.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchCollector) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchCollector creates a BatchCollector.
func NewBatchCollector(runner *Runner, stageFactory func(date string) Stage, opts ...BatchOption) *BatchCollector {
	b := &BatchCollector{
		runner:       runner,
		stageFactory: stageFactory,
		concurrency:  4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Collect runs the collect stage for every date, at most concurrency at a
// time. Per-date failures are recorded in the results rather than aborting
// the batch; the error return reports cancellation only.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
func (b *BatchCollector) Collect(ctx context.Context, dates []string) ([]BatchResult, error) {
	b.logger.Info("starting batch collect",
		"total_dates", len(dates),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results to keep date order stable.
	b.results = make([]BatchResult, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, date := range dates {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			b.logger.Info("collecting date",
				"date", date,
				"index", i+1,
				"total", len(dates),
			)

			err := b.runner.Run(ctx, b.stageFactory(date))

			b.mu.Lock()
			b.results[i] = BatchResult{Date: date, Err: err}
			b.mu.Unlock()

			if err != nil {
				b.logger.Warn("collect failed",
					"date", date,
					"error", err,
				)
				// Recorded in the result; other dates continue.
				return nil
			}
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch collect complete",
		"total_dates", len(dates),
		"elapsed", time.Since(startTime),
	)

	return b.results, err
}

// DateRange expands an inclusive from/to pair of YYYY-MM-DD dates into the
// list of days between them, in ascending order.
func DateRange(from, to string) ([]string, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", to, from)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates, nil
}
