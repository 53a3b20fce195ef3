package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// OrderEventWorker processes order event jobs from the River queue.
// It logs each event; notification fan-out hangs off this worker.
type OrderEventWorker struct {
	river.WorkerDefaults[OrderEventArgs]

	Logger *slog.Logger
}

// Work processes a single order event job.
func (w *OrderEventWorker) Work(ctx context.Context, job *river.Job[OrderEventArgs]) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "processing order event",
		"event", job.Args.Event,
		"order_id", job.Args.OrderID,
		"tenant_id", job.Args.TenantID,
		"status", job.Args.Status,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
