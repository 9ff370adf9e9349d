// internal/workers/matching/calculate-compatibility/handler.go
package calculatecompatibility

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/common/validation"
	"booking-workers/internal/compatibility"
	"booking-workers/internal/models"
	"booking-workers/internal/profiles"
)

const (
	TaskType = "calculate-compatibility"
)

// ProfileStore is satisfied by *profiles.Store.
type ProfileStore interface {
	Rider(ctx context.Context, id string) (*models.RiderProfile, error)
	Venue(ctx context.Context, id string) (*models.VenueProfile, error)
}

type Handler struct {
	config *Config
	store  ProfileStore
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, store ProfileStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := validation.Struct(input); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Summary())
	}

	var (
		rider compatibility.Rider
		venue compatibility.Venue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rider, err = h.resolveRider(gctx, input)
		return err
	})
	g.Go(func() (err error) {
		venue, err = h.resolveVenue(gctx, input)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := compatibility.Calculate(rider, venue)
	metrics.RecordEvaluation(result)

	h.logger.Info("compatibility calculated", map[string]interface{}{
		"riderId":      input.RiderID,
		"venueId":      input.VenueID,
		"overallScore": result.OverallScore,
		"status":       result.Status,
		"dealBreakers": result.DealBreakers,
	})

	return &Output{
		RiderID:           input.RiderID,
		VenueID:           input.VenueID,
		Compatibility:     result,
		CanRequestBooking: result.CanRequestBooking(),
		EvaluatedAt:       time.Now().UTC(),
	}, nil
}

func (h *Handler) resolveRider(ctx context.Context, input *Input) (compatibility.Rider, error) {
	if profiles.HasInline(input.Rider) {
		return profiles.DecodeRider(input.Rider)
	}
	if input.RiderID == "" {
		return compatibility.Rider{}, apperrors.NewInvalidInputError("riderId or rider is required")
	}
	p, err := h.store.Rider(ctx, input.RiderID)
	if err != nil {
		return compatibility.Rider{}, profiles.StandardError(profiles.KindRider, input.RiderID, err)
	}
	return p.Rider, nil
}

func (h *Handler) resolveVenue(ctx context.Context, input *Input) (compatibility.Venue, error) {
	if profiles.HasInline(input.Venue) {
		return profiles.DecodeVenue(input.Venue)
	}
	if input.VenueID == "" {
		return compatibility.Venue{}, apperrors.NewInvalidInputError("venueId or venue is required")
	}
	p, err := h.store.Venue(ctx, input.VenueID)
	if err != nil {
		return compatibility.Venue{}, profiles.StandardError(profiles.KindVenue, input.VenueID, err)
	}
	return p.Venue, nil
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
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}
