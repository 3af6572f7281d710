package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WarningJobName is the name of the contract warning generation job
const WarningJobName = "warning_generation"

// WarningGenerator defines the interface for generating contract warnings.
// This interface allows the job to call the service without importing the
// service package directly.
type WarningGenerator interface {
	// Generate scans all contracts and upserts deadline warnings.
	// Returns counts for newly created and refreshed warnings.
	Generate(ctx context.Context) (created int, refreshed int, err error)
}

// WarningJob runs the periodic warning generation sweep over all contracts.
type WarningJob struct {
	warnings WarningGenerator
	logger   *zap.Logger
	timeout  time.Duration
}

// NewWarningJob creates a new warning generation job.
// The timeout controls how long a single sweep is allowed to run.
func NewWarningJob(warnings WarningGenerator, logger *zap.Logger, timeout time.Duration) *WarningJob {
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &WarningJob{
		warnings: warnings,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes one warning generation sweep.
// This is called by the scheduler according to the cron expression.
func (j *WarningJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	created, refreshed, err := j.warnings.Generate(ctx)
	if err != nil {
		j.logger.Error("warning generation sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("warning generation sweep completed",
		zap.Int("created", created),
		zap.Int("refreshed", refreshed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterWarningJob registers the warning generation job with the scheduler.
// If runOnStartup is true, a sweep also runs immediately in a background
// goroutine so it doesn't block API startup.
func RegisterWarningJob(scheduler *Scheduler, warnings WarningGenerator, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStartup bool) error {
	job := NewWarningJob(warnings, logger, timeout)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(WarningJobName, cronExpr, job.Run)
}
