// internal/workers/booking/revoke-acceptance/handler.go
package revokeacceptance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"booking-workers/internal/common/database"
	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/common/validation"
	"booking-workers/internal/profiles"
)

const (
	TaskType = "revoke-acceptance"
)

type CacheInvalidator interface {
	Invalidate(ctx context.Context, kind profiles.Kind, id string) error
}

type Handler struct {
	config *Config
	db     *sql.DB
	cache  CacheInvalidator
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, cache CacheInvalidator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		cache:  cache,
		logger: l,
		errors: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// Execute soft-deletes the acceptance and decrements the rider's count.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := validation.Struct(input); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Summary())
	}

	out := &Output{AcceptanceID: input.AcceptanceID}

	err := database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		var (
			active    bool
			claimedBy sql.NullString
		)
		err := tx.QueryRowContext(ctx, `
			SELECT a.spider_rider_id, a.venue_id, a.is_active, v.claimed_by
			FROM spider_rider_acceptances a
			JOIN venues v ON v.id = a.venue_id
			WHERE a.id = $1
			FOR UPDATE OF a`, input.AcceptanceID).Scan(&out.SpiderRiderID, &out.VenueID, &active, &claimedBy)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
			return apperrors.NewAcceptanceNotFoundError(input.AcceptanceID)
		}
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("acceptance", err)
		}
		if !claimedBy.Valid || claimedBy.String != input.UserID {
			return apperrors.NewVenueNotOwnedError(out.VenueID, input.UserID)
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE spider_rider_acceptances
			SET is_active = false, revoked_at = NOW()
			WHERE id = $1
			RETURNING revoked_at`, input.AcceptanceID).Scan(&out.RevokedAt)
		if err != nil {
			return apperrors.NewDatabaseWriteFailedError("revoke_acceptance", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE spider_riders
			SET acceptance_count = GREATEST(COALESCE(acceptance_count, 0) - 1, 0)
			WHERE id = $1`, out.SpiderRiderID); err != nil {
			return apperrors.NewDatabaseWriteFailedError("decrement_acceptance_count", err)
		}
		return nil
	})
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return nil, stdErr
		}
		return nil, apperrors.NewDatabaseWriteFailedError("revoke_acceptance", err)
	}

	if err := h.cache.Invalidate(ctx, profiles.KindRider, out.SpiderRiderID); err != nil {
		h.logger.Warn("failed to invalidate rider profile", map[string]interface{}{
			"riderId": out.SpiderRiderID,
			"error":   err,
		})
	}

	h.logger.Info("acceptance revoked", map[string]interface{}{
		"acceptanceId": input.AcceptanceID,
		"riderId":      out.SpiderRiderID,
		"venueId":      out.VenueID,
	})
	out.Revoked = true
	out.RevokedAt = out.RevokedAt.UTC()
	return out, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}
