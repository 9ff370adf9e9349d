// internal/workers/booking/accept-rider/handler.go
package acceptrider

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"booking-workers/internal/common/database"
	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/common/validation"
	"booking-workers/internal/compatibility"
	"booking-workers/internal/models"
	"booking-workers/internal/profiles"
)

const (
	TaskType = "accept-rider"
)

type ProfileStore interface {
	Rider(ctx context.Context, id string) (*models.RiderProfile, error)
	Venue(ctx context.Context, id string) (*models.VenueProfile, error)
	Invalidate(ctx context.Context, kind profiles.Kind, id string) error
}

type Handler struct {
	config *Config
	db     *sql.DB
	store  ProfileStore
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, store ProfileStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		store:  store,
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

// Execute records the acceptance. The checks run in order: venue ownership,
// rider published, no active duplicate, pair not incompatible.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := validation.Struct(input); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Summary())
	}

	out := &Output{
		AcceptanceID:  uuid.New().String(),
		SpiderRiderID: input.SpiderRiderID,
		VenueID:       input.VenueID,
	}

	err := database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if err := h.checkOwnership(ctx, tx, input); err != nil {
			return err
		}
		if err := h.checkPublished(ctx, tx, input.SpiderRiderID); err != nil {
			return err
		}
		if err := h.checkDuplicate(ctx, tx, input); err != nil {
			return err
		}

		rider, venue, result, err := h.evaluate(ctx, input)
		if err != nil {
			return err
		}
		if !result.CanRequestBooking() {
			return apperrors.NewIncompatibleMatchError(result.DealBreakers)
		}

		out.VenueName = venue.Name
		out.BandID = rider.BandID
		out.BandName = rider.BandName
		out.CompatibilityScore = result.OverallScore
		out.CompatibilityStatus = result.Status

		acceptance := &models.Acceptance{
			ID:                  out.AcceptanceID,
			SpiderRiderID:       input.SpiderRiderID,
			VenueID:             input.VenueID,
			AcceptedBy:          input.UserID,
			Notes:               input.Notes,
			IsActive:            true,
			CompatibilityScore:  result.OverallScore,
			CompatibilityStatus: string(result.Status),
		}
		if err := insertAcceptance(ctx, tx, acceptance); err != nil {
			return apperrors.NewDatabaseWriteFailedError("insert_acceptance", err)
		}
		out.AcceptedAt = acceptance.CreatedAt

		if _, err := tx.ExecContext(ctx, `
			UPDATE spider_riders
			SET acceptance_count = COALESCE(acceptance_count, 0) + 1
			WHERE id = $1`, input.SpiderRiderID); err != nil {
			return apperrors.NewDatabaseWriteFailedError("increment_acceptance_count", err)
		}
		return nil
	})
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return nil, stdErr
		}
		return nil, apperrors.NewDatabaseWriteFailedError("accept_rider", err)
	}

	if err := h.store.Invalidate(ctx, profiles.KindRider, input.SpiderRiderID); err != nil {
		h.logger.Warn("failed to invalidate rider profile", map[string]interface{}{
			"riderId": input.SpiderRiderID,
			"error":   err,
		})
	}

	h.logger.Info("rider accepted", map[string]interface{}{
		"acceptanceId": out.AcceptanceID,
		"riderId":      input.SpiderRiderID,
		"venueId":      input.VenueID,
		"score":        out.CompatibilityScore,
	})
	out.AcceptedAt = out.AcceptedAt.UTC()
	return out, nil
}

func (h *Handler) checkOwnership(ctx context.Context, tx *sql.Tx, input *Input) error {
	var claimedBy sql.NullString
	err := tx.QueryRowContext(ctx, `SELECT claimed_by FROM venues WHERE id = $1`, input.VenueID).Scan(&claimedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewVenueNotFoundError(input.VenueID)
	}
	if err != nil {
		return queryError("venue_owner", err)
	}
	if !claimedBy.Valid || claimedBy.String != input.UserID {
		return apperrors.NewVenueNotOwnedError(input.VenueID, input.UserID)
	}
	return nil
}

func (h *Handler) checkPublished(ctx context.Context, tx *sql.Tx, riderID string) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM spider_riders WHERE id = $1 FOR UPDATE`, riderID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewRiderNotFoundError(riderID)
	}
	if err != nil {
		return queryError("rider_status", err)
	}
	if status != models.RiderStatusPublished {
		return apperrors.NewRiderNotPublishedError(riderID, status)
	}
	return nil
}

func (h *Handler) checkDuplicate(ctx context.Context, tx *sql.Tx, input *Input) error {
	var existing string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM spider_rider_acceptances
		WHERE spider_rider_id = $1 AND venue_id = $2 AND is_active = true
		LIMIT 1`, input.SpiderRiderID, input.VenueID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return queryError("active_acceptance", err)
	}
	return apperrors.NewDuplicateAcceptanceError(input.SpiderRiderID, input.VenueID)
}

func (h *Handler) evaluate(ctx context.Context, input *Input) (*models.RiderProfile, *models.VenueProfile, compatibility.Result, error) {
	rider, err := h.store.Rider(ctx, input.SpiderRiderID)
	if err != nil {
		return nil, nil, compatibility.Result{}, profiles.StandardError(profiles.KindRider, input.SpiderRiderID, err)
	}
	venue, err := h.store.Venue(ctx, input.VenueID)
	if err != nil {
		return nil, nil, compatibility.Result{}, profiles.StandardError(profiles.KindVenue, input.VenueID, err)
	}

	result := compatibility.Calculate(rider.Rider, venue.Venue)
	metrics.RecordEvaluation(result)
	return rider, venue, result, nil
}

func queryError(queryType string, err error) *apperrors.StandardError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(queryType, err)
	}
	return apperrors.NewQueryExecutionFailedError(queryType, err)
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

func insertAcceptance(ctx context.Context, tx *sql.Tx, a *models.Acceptance) error {
	var notes sql.NullString
	if a.Notes != "" {
		notes = sql.NullString{String: a.Notes, Valid: true}
	}
	return tx.QueryRowContext(ctx, `
		INSERT INTO spider_rider_acceptances
			(id, spider_rider_id, venue_id, accepted_by, notes, is_active, compatibility_score, compatibility_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		a.ID, a.SpiderRiderID, a.VenueID, a.AcceptedBy, notes, a.IsActive, a.CompatibilityScore, a.CompatibilityStatus,
	).Scan(&a.CreatedAt)
}
