package background

import (
	"context"
	"sync"
	"time"

	"salonstock/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Intervals configures the periodic jobs; a zero interval disables that job.
type Intervals struct {
	LowStock  time.Duration
	Reconcile time.Duration
}

// JobScheduler runs the periodic read-only checks.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.InventoryAlertService
	reconcile *jobs.ReconciliationJob
	logger    zerolog.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(alerts *jobs.InventoryAlertService, reconcile *jobs.ReconciliationJob, intervals Intervals, logger zerolog.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		reconcile: reconcile,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		jobs:      make(map[string]gocron.Job),
	}
	js.register("low-stock-alerts", intervals.LowStock, js.alerts.ScheduledLowStockCheck)
	js.register("ledger-reconciliation", intervals.Reconcile, js.reconcile.Run)
	return js, nil
}

func (js *JobScheduler) register(name string, every time.Duration, run func(context.Context) error) {
	if every <= 0 {
		js.logger.Info().Str("job", name).Msg("job disabled")
		return
	}
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), every)
			defer cancel()
			if err := run(ctx); err != nil {
				js.logger.Error().Err(err).Str("job", name).Msg("job failed")
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.logger.Error().Err(err).Str("job", name).Msg("registering job failed")
		return
	}
	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
}

// Jobs returns the names of the registered jobs.
func (js *JobScheduler) Jobs() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.Jobs())).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}
