// internal/workers/matching/rank-venues/config.go
package rankvenues

import (
	"time"

	"booking-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	Index          string
	CandidateLimit int
	DefaultLimit   int
}

func LoadConfig(m config.MatchingConfig) *Config {
	return &Config{
		Timeout:        30 * time.Second,
		Index:          m.VenueIndex,
		CandidateLimit: m.CandidateLimit,
		DefaultLimit:   m.DefaultLimit,
	}
}
