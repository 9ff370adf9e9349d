// internal/workers/notifications/send-match-notification/models.go
package sendmatchnotification

const (
	RecipientTypeBand  = "band"
	RecipientTypeVenue = "venue"

	TypeRiderAccepted = "rider_accepted"
	TypeMatchFound    = "match_found"

	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type Input struct {
	RecipientID      string                 `json:"recipientId" validate:"required"`
	RecipientType    string                 `json:"recipientType" validate:"required,oneof=band venue"`
	NotificationType string                 `json:"notificationType" validate:"required,oneof=rider_accepted match_found"`
	SpiderRiderID    string                 `json:"spiderRiderId,omitempty"`
	VenueID          string                 `json:"venueId,omitempty"`
	AcceptanceID     string                 `json:"acceptanceId,omitempty"`
	BandName         string                 `json:"bandName,omitempty"`
	VenueName        string                 `json:"venueName,omitempty"`
	OverallScore     int                    `json:"overallScore,omitempty" validate:"gte=0,lte=100"`
	Status           string                 `json:"status,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type ChannelResult struct {
	Channel   string `json:"channel"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Output struct {
	NotificationID string          `json:"notificationId"`
	Status         string          `json:"status"`
	Channels       []ChannelResult `json:"channels"`
	SentAt         string          `json:"sentAt"`
}
