// internal/workers/booking/accept-rider/handler_test.go
package acceptrider

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/compatibility"
	"booking-workers/internal/models"
	"booking-workers/internal/profiles"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Rider(ctx context.Context, id string) (*models.RiderProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.RiderProfile)
	return p, args.Error(1)
}

func (m *mockStore) Venue(ctx context.Context, id string) (*models.VenueProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.VenueProfile)
	return p, args.Error(1)
}

func (m *mockStore) Invalidate(ctx context.Context, kind profiles.Kind, id string) error {
	return m.Called(ctx, kind, id).Error(0)
}

func ptr[T any](v T) *T { return &v }

func riderProfile(minWidth float64) *models.RiderProfile {
	return &models.RiderProfile{
		ID:       "rider-1",
		BandID:   "band-1",
		BandName: "The Salt Flats",
		Status:   models.RiderStatusPublished,
		Rider:    compatibility.Rider{MinStageWidthFeet: ptr(minWidth), MinStageDepthFeet: ptr(12.0)},
	}
}

func venueProfile() *models.VenueProfile {
	return &models.VenueProfile{
		ID:        "venue-1",
		Name:      "Kilby Court",
		ClaimedBy: "user-1",
		Venue: compatibility.Venue{
			StageWidthFeet: ptr(24.0),
			StageDepthFeet: ptr(16.0),
			HasBackline:    ptr(true),
		},
	}
}

func validInput() *Input {
	return &Input{SpiderRiderID: "rider-1", VenueID: "venue-1", UserID: "user-1", Notes: "See you in May"}
}

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock, *mockStore) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := &mockStore{}
	return NewHandler(LoadConfig(), db, store, logger.NewTestLogger(t)), dbMock, store
}

func expectChecks(dbMock sqlmock.Sqlmock, claimedBy, status string, duplicate bool) {
	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT claimed_by FROM venues").WithArgs("venue-1").
		WillReturnRows(sqlmock.NewRows([]string{"claimed_by"}).AddRow(claimedBy))
	if claimedBy != "user-1" {
		return
	}
	dbMock.ExpectQuery("SELECT status FROM spider_riders").WithArgs("rider-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(status))
	if status != models.RiderStatusPublished {
		return
	}
	dup := sqlmock.NewRows([]string{"id"})
	if duplicate {
		dup.AddRow("acc-existing")
	}
	dbMock.ExpectQuery("SELECT id FROM spider_rider_acceptances").WithArgs("rider-1", "venue-1").WillReturnRows(dup)
}

func TestHandler_Execute_Success(t *testing.T) {
	h, dbMock, store := setup(t)
	store.On("Rider", mock.Anything, "rider-1").Return(riderProfile(20), nil)
	store.On("Venue", mock.Anything, "venue-1").Return(venueProfile(), nil)
	store.On("Invalidate", mock.Anything, profiles.KindRider, "rider-1").Return(nil)

	createdAt := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	expectChecks(dbMock, "user-1", "published", false)
	dbMock.ExpectQuery("INSERT INTO spider_rider_acceptances").
		WithArgs(sqlmock.AnyArg(), "rider-1", "venue-1", "user-1", "See you in May", true, 100, "excellent").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
	dbMock.ExpectExec("UPDATE spider_riders").WithArgs("rider-1").WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	out, err := h.Execute(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, out.AcceptanceID)
	assert.Equal(t, "Kilby Court", out.VenueName)
	assert.Equal(t, "The Salt Flats", out.BandName)
	assert.Equal(t, 100, out.CompatibilityScore)
	assert.Equal(t, compatibility.MatchExcellent, out.CompatibilityStatus)
	assert.Equal(t, createdAt, out.AcceptedAt)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	store.AssertExpectations(t)
}

func TestHandler_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		claimedBy string
		status    string
		duplicate bool
		minWidth  float64
		wantCode  apperrors.ErrorCode
	}{
		{name: "venue owned by someone else", claimedBy: "user-2", wantCode: apperrors.ErrCodeVenueNotOwned},
		{name: "rider still a draft", claimedBy: "user-1", status: "draft", wantCode: apperrors.ErrCodeRiderNotPublished},
		{name: "already accepted", claimedBy: "user-1", status: "published", duplicate: true, wantCode: apperrors.ErrCodeDuplicateAcceptance},
		{name: "stage too small", claimedBy: "user-1", status: "published", minWidth: 40, wantCode: apperrors.ErrCodeIncompatibleMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, dbMock, store := setup(t)
			store.On("Rider", mock.Anything, "rider-1").Return(riderProfile(tt.minWidth), nil).Maybe()
			store.On("Venue", mock.Anything, "venue-1").Return(venueProfile(), nil).Maybe()

			expectChecks(dbMock, tt.claimedBy, tt.status, tt.duplicate)
			dbMock.ExpectRollback()

			_, err := h.Execute(context.Background(), validInput())

			require.Error(t, err)
			std := apperrors.AsStandardError(err)
			assert.Equal(t, tt.wantCode, std.Code)
			assert.False(t, std.Retryable)
			assert.NoError(t, dbMock.ExpectationsWereMet())
			store.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Execute_IncompatibleCarriesDealBreakers(t *testing.T) {
	h, dbMock, store := setup(t)
	store.On("Rider", mock.Anything, "rider-1").Return(riderProfile(40), nil)
	store.On("Venue", mock.Anything, "venue-1").Return(venueProfile(), nil)

	expectChecks(dbMock, "user-1", "published", false)
	dbMock.ExpectRollback()

	_, err := h.Execute(context.Background(), validInput())

	std := apperrors.AsStandardError(err)
	require.NotNil(t, std)
	assert.Equal(t, []string{"Stage too small: 24x16ft vs 40x12ft required"}, std.Metadata["dealBreakers"])
}

func TestHandler_Execute_VenueMissing(t *testing.T) {
	h, dbMock, _ := setup(t)
	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT claimed_by FROM venues").WithArgs("venue-1").WillReturnError(sql.ErrNoRows)
	dbMock.ExpectRollback()

	_, err := h.Execute(context.Background(), validInput())
	assert.Equal(t, apperrors.ErrCodeVenueNotFound, apperrors.AsStandardError(err).Code)
}

func TestHandler_Execute_WriteFailureIsRetryable(t *testing.T) {
	h, dbMock, store := setup(t)
	store.On("Rider", mock.Anything, "rider-1").Return(riderProfile(20), nil)
	store.On("Venue", mock.Anything, "venue-1").Return(venueProfile(), nil)

	expectChecks(dbMock, "user-1", "published", false)
	dbMock.ExpectQuery("INSERT INTO spider_rider_acceptances").WillReturnError(errors.New("connection reset by peer"))
	dbMock.ExpectRollback()

	_, err := h.Execute(context.Background(), validInput())

	std := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDatabaseWriteFailed, std.Code)
	assert.True(t, std.Retryable)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h, _, _ := setup(t)

	_, err := h.Execute(context.Background(), &Input{VenueID: "venue-1"})

	std := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, std.Code)
	assert.Contains(t, std.Details, "spiderRiderId")
	assert.Contains(t, std.Details, "userId")
}
