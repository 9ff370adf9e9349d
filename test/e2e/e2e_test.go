// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-workers/internal/common/config"
	"booking-workers/internal/common/database"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/compatibility"
	"booking-workers/internal/profiles"
	acceptrider "booking-workers/internal/workers/booking/accept-rider"
	revokeacceptance "booking-workers/internal/workers/booking/revoke-acceptance"
	calculatecompatibility "booking-workers/internal/workers/matching/calculate-compatibility"
	rankvenues "booking-workers/internal/workers/matching/rank-venues"
	"booking-workers/internal/workers/matching/rank-venues/queries"
)

const e2eIndex = "venues-e2e"

type env struct {
	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	store *profiles.Store
	log   logger.Logger
}

// setupEnv connects to the local stack (docker compose up). Set E2E=1 to run.
func setupEnv(t *testing.T) *env {
	t.Helper()
	if testing.Short() || os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 with Postgres, Redis and Elasticsearch running to run e2e tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(config.PostgresConfig{
		Host:           getenv("DB_HOST", "localhost"),
		Port:           5432,
		Database:       getenv("DB_NAME", "booking"),
		User:           getenv("DB_USER", "postgres"),
		Password:       getenv("DB_PASSWORD", "postgres"),
		MaxConnections: 5,
		MaxIdle:        2,
		SSLMode:        "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })
	require.NoError(t, pg.Ping(ctx), "postgres not reachable")

	rdb := database.NewRedis(config.RedisConfig{Address: getenv("REDIS_ADDRESS", "localhost:6379")})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx), "redis not reachable")

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{
		Addresses: []string{getenv("ES_ADDRESS", "http://localhost:9200")},
	})
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "elasticsearch not reachable")

	log := logger.NewTestLogger(t)
	e := &env{
		pg:    pg,
		es:    es,
		store: profiles.NewStore(pg.DB, rdb.Client, time.Minute, log),
		log:   log,
	}
	e.seedDatabase(t)
	e.seedIndex(t)
	return e
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (e *env) seedDatabase(t *testing.T) {
	ctx := context.Background()
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bands (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			contact_email TEXT,
			contact_phone TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS spider_riders (
			id TEXT PRIMARY KEY,
			band_id TEXT REFERENCES bands(id),
			version TEXT NOT NULL DEFAULT '1.0',
			status TEXT NOT NULL DEFAULT 'draft',
			acceptance_count INTEGER NOT NULL DEFAULT 0,
			guarantee_min BIGINT,
			min_stage_width_feet NUMERIC,
			min_stage_depth_feet NUMERIC,
			min_input_channels INTEGER,
			requires_house_drums BOOLEAN,
			age_restriction TEXT,
			meal_buyout_amount BIGINT,
			drink_tickets_count INTEGER,
			guest_list_allocation INTEGER,
			green_room_requirements TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS venues (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT,
			city TEXT,
			claimed_by TEXT,
			contact_email TEXT,
			contact_phone TEXT,
			capacity INTEGER,
			stage_width_feet NUMERIC,
			stage_depth_feet NUMERIC,
			input_channels INTEGER,
			has_house_drums BOOLEAN,
			has_backline BOOLEAN,
			typical_guarantee_min BIGINT,
			typical_guarantee_max BIGINT,
			age_restrictions TEXT[]
		)`,
		`CREATE TABLE IF NOT EXISTS spider_rider_acceptances (
			id TEXT PRIMARY KEY,
			spider_rider_id TEXT NOT NULL REFERENCES spider_riders(id),
			venue_id TEXT NOT NULL REFERENCES venues(id),
			accepted_by TEXT NOT NULL,
			notes TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			compatibility_score INTEGER,
			compatibility_status TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			revoked_at TIMESTAMPTZ
		)`,
		`DELETE FROM spider_rider_acceptances WHERE spider_rider_id = 'e2e-rider'`,
		`INSERT INTO bands (id, name, contact_email) VALUES ('e2e-band', 'The Salt Flats', 'band@example.com')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO spider_riders (id, band_id, status, acceptance_count, guarantee_min,
			min_stage_width_feet, min_stage_depth_feet, min_input_channels, age_restriction)
		 VALUES ('e2e-rider', 'e2e-band', 'published', 0, 30000, 20, 12, 16, '18+')
		 ON CONFLICT (id) DO UPDATE SET acceptance_count = 0, status = 'published'`,
		`INSERT INTO venues (id, name, city, claimed_by, capacity, stage_width_feet, stage_depth_feet,
			input_channels, has_house_drums, has_backline, age_restrictions)
		 VALUES ('e2e-venue', 'Urban Lounge', 'Salt Lake City', 'e2e-user', 350, 24, 16, 24, true, true, '{all_ages}')
		 ON CONFLICT (id) DO NOTHING`,
	}
	for _, stmt := range statements {
		_, err := e.pg.DB.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, e.store.Invalidate(ctx, profiles.KindRider, "e2e-rider"))
	require.NoError(t, e.store.Invalidate(ctx, profiles.KindVenue, "e2e-venue"))
}

func (e *env) seedIndex(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }
	capacity := func(v int) *int { return &v }

	docs := []queries.VenueDocument{
		{ID: "es-urban", Name: "Urban Lounge", City: "Salt Lake City", Venue: compatibility.Venue{
			Capacity: capacity(350), StageWidthFeet: ptr(24), StageDepthFeet: ptr(16), AgeRestrictions: []string{"all_ages"},
		}},
		{ID: "es-kilby", Name: "Kilby Court", City: "Salt Lake City", Venue: compatibility.Venue{
			Capacity: capacity(150), StageWidthFeet: ptr(12), StageDepthFeet: ptr(8), AgeRestrictions: []string{"all_ages"},
		}},
		{ID: "es-boise", Name: "Neurolux", City: "Boise", Venue: compatibility.Venue{
			Capacity: capacity(300), StageWidthFeet: ptr(24), StageDepthFeet: ptr(16),
		}},
	}
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		require.NoError(t, err)
		res, err := esapi.IndexRequest{
			Index:      e2eIndex,
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			Refresh:    "true",
		}.Do(context.Background(), e.es.Client)
		require.NoError(t, err)
		require.False(t, res.IsError(), res.String())
		res.Body.Close()
	}
}

func TestE2E_CalculateCompatibility(t *testing.T) {
	e := setupEnv(t)
	h := calculatecompatibility.NewHandler(calculatecompatibility.LoadConfig(), e.store, e.log)

	out, err := h.Execute(context.Background(), &calculatecompatibility.Input{RiderID: "e2e-rider", VenueID: "e2e-venue"})

	require.NoError(t, err)
	assert.True(t, out.CanRequestBooking)
	assert.Empty(t, out.Compatibility.DealBreakers)
	assert.GreaterOrEqual(t, out.Compatibility.OverallScore, 85)
}

func TestE2E_RankVenues(t *testing.T) {
	e := setupEnv(t)
	cfg := rankvenues.LoadConfig(config.MatchingConfig{VenueIndex: e2eIndex, CandidateLimit: 50, DefaultLimit: 10})
	h := rankvenues.NewHandler(cfg, e.es.Client, e.store, e.log)

	out, err := h.Execute(context.Background(), &rankvenues.Input{RiderID: "e2e-rider", City: "Salt Lake City"})

	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalCandidates)
	require.Len(t, out.Venues, 1)
	assert.Equal(t, "es-urban", out.Venues[0].VenueID)
}

func TestE2E_AcceptThenRevoke(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	accept := acceptrider.NewHandler(acceptrider.LoadConfig(), e.pg.DB, e.store, e.log)
	accepted, err := accept.Execute(ctx, &acceptrider.Input{SpiderRiderID: "e2e-rider", VenueID: "e2e-venue", UserID: "e2e-user"})
	require.NoError(t, err)
	assert.Equal(t, "The Salt Flats", accepted.BandName)
	assert.Equal(t, 1, acceptanceCount(t, e.pg.DB))

	rider, err := e.store.Rider(ctx, "e2e-rider")
	require.NoError(t, err)
	assert.Equal(t, 1, rider.AcceptanceCount, "cache must be invalidated after accepting")

	_, err = accept.Execute(ctx, &acceptrider.Input{SpiderRiderID: "e2e-rider", VenueID: "e2e-venue", UserID: "e2e-user"})
	require.Error(t, err)

	revoke := revokeacceptance.NewHandler(revokeacceptance.LoadConfig(), e.pg.DB, e.store, e.log)
	revoked, err := revoke.Execute(ctx, &revokeacceptance.Input{AcceptanceID: accepted.AcceptanceID, UserID: "e2e-user"})
	require.NoError(t, err)
	assert.True(t, revoked.Revoked)
	assert.Equal(t, 0, acceptanceCount(t, e.pg.DB))
}

func acceptanceCount(t *testing.T, db *sql.DB) int {
	var n int
	require.NoError(t, db.QueryRow(`SELECT acceptance_count FROM spider_riders WHERE id = 'e2e-rider'`).Scan(&n))
	return n
}
