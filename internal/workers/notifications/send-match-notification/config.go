// internal/workers/notifications/send-match-notification/config.go
package sendmatchnotification

import (
	"time"

	"booking-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
}

func LoadConfig(n config.NotificationConfig) *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: n.Email.Enabled,
		FromEmail:    n.Email.FromEmail,
		SMSEnabled:   n.SMS.Enabled,
	}
}
