// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"booking-workers/internal/common/config"
	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// StartWorker opens a job worker for taskType. Disabled workers are skipped
// and return nil.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jw := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return jw
}

// Instrument wraps handler with the active-jobs gauge and duration metrics.
// The recorded status is the command the handler issued for the job.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		outcome := runJob(handler, client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if obs != nil {
			ctx := context.Background()
			obs.RecordJobProcessed(ctx, taskType, outcome)
			obs.RecordJobDuration(ctx, taskType, elapsed, outcome)
		}
	}
}

// outcomeUnhandled marks a job the handler neither completed, failed nor threw.
const outcomeUnhandled = "unhandled"

func runJob(handler worker.JobHandler, client worker.JobClient, job entities.Job) string {
	tracked := &outcomeClient{JobClient: client, outcome: outcomeUnhandled}
	handler(tracked, job)
	return tracked.outcome
}

// outcomeClient remembers the last command a handler created.
type outcomeClient struct {
	worker.JobClient
	outcome string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = string(apperrors.OutcomeCompleted)
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = string(apperrors.OutcomeFailed)
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = string(apperrors.OutcomeThrown)
	return c.JobClient.NewThrowErrorCommand()
}
