// Package extract drives concurrent schema extraction across batches of
// PDF files.
package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/docsift/docsift/internal/provider"
	"github.com/docsift/docsift/internal/schema"
)

// DefaultWorkers bounds concurrent extraction calls unless configured.
const DefaultWorkers = 4

// Runner drives a fixed-size pool of extraction workers. All workers pull
// from a single shared queue; completion order is unspecified and the
// aggregate is normalized to discovery order at assembly.
type Runner struct {
	client  provider.Client
	schema  *schema.Schema
	workers int
	logger  *slog.Logger
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Client  provider.Client
	Schema  *schema.Schema
	Workers int // Concurrent extraction calls (default: 4)
	Logger  *slog.Logger
}

// NewRunner creates a runner for one batch configuration.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Runner{
		client:  cfg.Client,
		schema:  cfg.Schema,
		workers: workers,
		logger:  logger.With("component", "extract", "workers", workers),
	}
}

// Run processes files with at most the configured number of calls in
// flight. Per-file failures are recorded in the batch, never fatal; there
// are no retries. The batch always carries one entry per input file.
func (r *Runner) Run(ctx context.Context, files []string) *Batch {
	start := time.Now()
	batch := newBatch(files)

	if len(files) == 0 {
		batch.Elapsed = time.Since(start)
		return batch
	}

	queue := make(chan Task, len(files))
	results := make(chan outcome, len(files))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r.worker(ctx, id, queue, results)
		}(i)
	}

	for i, path := range files {
		queue <- Task{Index: i, Path: path}
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		batch.deposit(out)
	}
	batch.finalize()

	batch.Elapsed = time.Since(start)
	r.logger.Info("batch complete",
		"files", len(files),
		"succeeded", batch.Succeeded(),
		"failed", len(batch.Errors),
		"prompt_tokens", batch.Usage.PromptTokens,
		"completion_tokens", batch.Usage.CompletionTokens,
		"elapsed", batch.Elapsed.Round(time.Millisecond),
	)

	return batch
}

// worker processes tasks from the shared queue until it drains. After the
// context ends, remaining tasks are marked failed without being started.
func (r *Runner) worker(ctx context.Context, id int, queue <-chan Task, results chan<- outcome) {
	for task := range queue {
		select {
		case <-ctx.Done():
			results <- outcome{
				index: task.Index,
				err:   &FileError{Path: task.Path, Err: ctx.Err()},
			}
			continue
		default:
		}

		out := r.run(ctx, task)
		if out.err != nil {
			r.logger.Warn("extraction failed",
				"worker_id", id, "file", filepath.Base(task.Path), "error", out.err.Err)
		} else {
			r.logger.Debug("extraction complete",
				"worker_id", id, "file", filepath.Base(task.Path),
				"tokens", out.result.TotalTokens)
		}
		results <- out
	}
}
