// internal/workers/matching/rank-venues/handler.go
package rankvenues

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/common/validation"
	"booking-workers/internal/compatibility"
	"booking-workers/internal/models"
	"booking-workers/internal/profiles"
	"booking-workers/internal/workers/matching/rank-venues/queries"
)

const (
	TaskType = "rank-venues"
)

type RiderStore interface {
	Rider(ctx context.Context, id string) (*models.RiderProfile, error)
}

type Handler struct {
	config *Config
	client *elasticsearch.Client
	store  RiderStore
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, store RiderStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
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

	rider, err := h.resolveRider(ctx, input)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	limit = min(limit, h.config.CandidateLimit)

	found, err := h.search(ctx, queries.VenueQuery{
		Index:       h.config.Index,
		City:        input.City,
		MinCapacity: input.MinCapacity,
		Size:        h.config.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedVenue, 0, len(found.Venues))
	compatible := 0
	for _, doc := range found.Venues {
		result := compatibility.Calculate(rider, doc.Venue)
		metrics.RecordEvaluation(result)

		if result.CanRequestBooking() {
			compatible++
		} else if !input.IncludeIncompatible {
			continue
		}
		ranked = append(ranked, RankedVenue{
			VenueID:           doc.ID,
			Name:              doc.Name,
			City:              doc.City,
			OverallScore:      result.OverallScore,
			Status:            result.Status,
			DealBreakers:      result.DealBreakers,
			CanRequestBooking: result.CanRequestBooking(),
		})
	}

	sortRanked(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	h.logger.Info("venues ranked", map[string]interface{}{
		"riderId":    input.RiderID,
		"candidates": len(found.Venues),
		"compatible": compatible,
		"returned":   len(ranked),
	})

	return &Output{
		RiderID:         input.RiderID,
		Venues:          ranked,
		TotalCandidates: len(found.Venues),
		TotalCompatible: compatible,
		Took:            found.Took,
	}, nil
}

// sortRanked orders bookable venues first, then by score, name and id.
func sortRanked(venues []RankedVenue) {
	slices.SortStableFunc(venues, func(a, b RankedVenue) int {
		if a.CanRequestBooking != b.CanRequestBooking {
			if a.CanRequestBooking {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(b.OverallScore, a.OverallScore),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.VenueID, b.VenueID),
		)
	})
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

func (h *Handler) search(ctx context.Context, q queries.VenueQuery) (*queries.SearchResult, error) {
	req, err := queries.BuildVenueSearch(q)
	if err != nil {
		return nil, apperrors.NewIndexNotFoundError(q.Index)
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewSearchTimeoutError(q.Index, err)
		}
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(q.Index)
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, apperrors.NewSearchQueryFailedError(q.Index, fmt.Errorf("%s: %s", res.Status(), body))
	}

	found, err := queries.DecodeSearch(res.Body)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(q.Index, err)
	}
	return found, nil
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
