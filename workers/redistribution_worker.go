// workers/redistribution_worker.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"tournament-settlement-system/services"
)

const redistributionBatchSize = 50

// RedistributionWorker retries solo tax redistribution tasks the request path could not finish.
type RedistributionWorker struct {
	redistributor *services.TaxRedistributor
	interval      time.Duration
	sched         gocron.Scheduler
}

func NewRedistributionWorker(r *services.TaxRedistributor, interval time.Duration) (*RedistributionWorker, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &RedistributionWorker{redistributor: r, interval: interval, sched: sched}, nil
}

// Start schedules the retry job. Runs never overlap.
func (w *RedistributionWorker) Start(ctx context.Context) error {
	_, err := w.sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.RunOnce(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("solo-tax-redistribution"),
	)
	if err != nil {
		return fmt.Errorf("schedule redistribution job: %w", err)
	}
	w.sched.Start()
	slog.Info("🔁 [REDISTRIBUTOR] retry worker started", "interval", w.interval)
	return nil
}

// RunOnce drains one batch of pending tasks.
func (w *RedistributionWorker) RunOnce(ctx context.Context) int {
	done, err := w.redistributor.RetryPending(ctx, redistributionBatchSize)
	if err != nil {
		slog.Error("[REDISTRIBUTOR] retry batch failed", "error", err)
		return 0
	}
	if done > 0 {
		slog.Info("[REDISTRIBUTOR] retried pending tasks", "completed", done)
	}
	return done
}

func (w *RedistributionWorker) Stop() error {
	return w.sched.Shutdown()
}
