// internal/profiles/store.go
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/models"
)

type Kind string

const (
	KindRider Kind = "rider"
	KindVenue Kind = "venue"
)

var ErrNotFound = errors.New("profile not found")

const (
	riderQuery = `SELECT ` + models.RiderColumns + `
	FROM spider_riders r
	LEFT JOIN bands b ON b.id = r.band_id
	WHERE r.id = $1`

	venueQuery = `SELECT ` + models.VenueColumns + `
	FROM venues v
	WHERE v.id = $1`
)

// Store loads rider and venue profiles from Postgres through a Redis
// read-through cache. A nil redis client disables caching.
type Store struct {
	db    *sql.DB
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewStore(db *sql.DB, redisClient *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		db:    db,
		redis: redisClient,
		ttl:   ttl,
		log:   log,
	}
}

func CacheKey(kind Kind, id string) string {
	return fmt.Sprintf("%s:profile:%s", kind, id)
}

func (s *Store) Rider(ctx context.Context, id string) (*models.RiderProfile, error) {
	return readThrough(ctx, s, KindRider, id, func() (models.RiderProfile, error) {
		var row models.SpiderRiderRow
		if err := s.db.QueryRowContext(ctx, riderQuery, id).Scan(row.ScanTargets()...); err != nil {
			return models.RiderProfile{}, err
		}
		return row.ToProfile(), nil
	})
}

func (s *Store) Venue(ctx context.Context, id string) (*models.VenueProfile, error) {
	return readThrough(ctx, s, KindVenue, id, func() (models.VenueProfile, error) {
		var row models.VenueRow
		if err := s.db.QueryRowContext(ctx, venueQuery, id).Scan(row.ScanTargets()...); err != nil {
			return models.VenueProfile{}, err
		}
		return row.ToProfile(), nil
	})
}

// Invalidate drops the cached profile so the next read hits Postgres.
func (s *Store) Invalidate(ctx context.Context, kind Kind, id string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, CacheKey(kind, id)).Err()
}

func readThrough[T any](ctx context.Context, s *Store, kind Kind, id string, load func() (T, error)) (*T, error) {
	key := CacheKey(kind, id)

	if s.redis != nil {
		val, err := s.redis.Get(ctx, key).Result()
		switch {
		case err == nil:
			var cached T
			if jerr := json.Unmarshal([]byte(val), &cached); jerr == nil {
				metrics.ProfileCacheLookups.WithLabelValues(string(kind), "hit").Inc()
				return &cached, nil
			}
			s.log.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
		case errors.Is(err, redis.Nil):
			metrics.ProfileCacheLookups.WithLabelValues(string(kind), "miss").Inc()
		default:
			metrics.ProfileCacheLookups.WithLabelValues(string(kind), "error").Inc()
			s.log.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err})
		}
	}

	profile, err := load()
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", kind, id, err)
	}

	if s.redis != nil {
		if data, merr := json.Marshal(profile); merr == nil {
			if serr := s.redis.Set(ctx, key, data, s.ttl).Err(); serr != nil {
				s.log.Warn("profile cache write failed", map[string]interface{}{"key": key, "error": serr})
			}
		}
	}
	return &profile, nil
}

// StandardError maps a Store error to the worker error taxonomy.
func StandardError(kind Kind, id string, err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrNotFound) && kind == KindRider:
		return apperrors.NewRiderNotFoundError(id)
	case errors.Is(err, ErrNotFound):
		return apperrors.NewVenueNotFoundError(id)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewQueryTimeoutError(string(kind)+"_profile", err)
	default:
		return apperrors.NewQueryExecutionFailedError(string(kind)+"_profile", err)
	}
}
