// internal/workers/notifications/send-match-notification/handler.go
package sendmatchnotification

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

	"booking-workers/internal/common/aws"
	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/common/validation"
	"booking-workers/internal/models"
)

const (
	TaskType = "send-match-notification"
)

// Define interfaces for mocking
type EmailSender interface {
	SendEmail(ctx context.Context, e aws.Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config *Config
	db     *sql.DB
	email  EmailSender
	sms    SMSSender
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		email:  email,
		sms:    sms,
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

// Execute sends the email and, for accepted riders, an SMS. An email failure
// fails the job so the broker retries; an SMS failure after a delivered email
// is reported on the channel only.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := validation.Struct(input); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Summary())
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		Channels:       []ChannelResult{},
	}

	wantSMS := h.config.SMSEnabled && h.sms != nil && input.NotificationType == TypeRiderAccepted
	wantEmail := h.config.EmailEnabled && h.email != nil
	if !wantEmail && !wantSMS {
		out.SentAt = time.Now().UTC().Format(time.RFC3339)
		return out, nil
	}

	recipient, err := h.getRecipient(ctx, input.RecipientType, input.RecipientID)
	if err != nil {
		return nil, err
	}

	msg, err := render(input.NotificationType, templateData{
		RecipientName: recipient.Name,
		BandName:      input.BandName,
		VenueName:     input.VenueName,
		OverallScore:  input.OverallScore,
		Status:        input.Status,
		AcceptanceID:  input.AcceptanceID,
		Metadata:      input.Metadata,
	})
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	delivered := false
	if wantEmail && recipient.Email != "" {
		id, err := h.email.SendEmail(ctx, aws.Email{
			From:    h.config.FromEmail,
			To:      recipient.Email,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		})
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		out.Channels = append(out.Channels, ChannelResult{Channel: ChannelEmail, Status: StatusSent, MessageID: id})
		delivered = true
	} else if wantEmail {
		out.Channels = append(out.Channels, ChannelResult{Channel: ChannelEmail, Status: StatusSkipped, Error: "no email on file"})
	}

	if wantSMS && recipient.Phone != "" {
		id, err := h.sms.SendSMS(ctx, recipient.Phone, msg.SMS)
		switch {
		case err == nil:
			out.Channels = append(out.Channels, ChannelResult{Channel: ChannelSMS, Status: StatusSent, MessageID: id})
			delivered = true
		case !delivered:
			return nil, apperrors.NewNotificationSendFailedError(ChannelSMS, err)
		default:
			h.logger.Warn("sms send failed", map[string]interface{}{
				"recipientId": input.RecipientID,
				"error":       err,
			})
			out.Channels = append(out.Channels, ChannelResult{Channel: ChannelSMS, Status: StatusFailed, Error: err.Error()})
		}
	}

	if delivered {
		out.Status = StatusSent
	} else {
		out.Status = StatusFailed
	}
	out.SentAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId":   out.NotificationID,
		"notificationType": input.NotificationType,
		"recipientType":    input.RecipientType,
		"status":           out.Status,
	})
	return out, nil
}

func (h *Handler) getRecipient(ctx context.Context, recipientType, recipientID string) (*models.Recipient, error) {
	var query string
	switch recipientType {
	case RecipientTypeBand:
		query = `SELECT id, name, COALESCE(contact_email, ''), COALESCE(contact_phone, '') FROM bands WHERE id = $1`
	case RecipientTypeVenue:
		query = `SELECT id, name, COALESCE(contact_email, ''), COALESCE(contact_phone, '') FROM venues WHERE id = $1`
	default:
		return nil, apperrors.NewInvalidInputError("invalid recipient type: " + recipientType)
	}

	var r models.Recipient
	err := h.db.QueryRowContext(ctx, query, recipientID).Scan(&r.ID, &r.Name, &r.Email, &r.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewRecipientNotFoundError(recipientType, recipientID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("recipient_contact", err)
	}
	return &r, nil
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
