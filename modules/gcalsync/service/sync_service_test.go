package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"gcal-sync/core/config"
	"gcal-sync/core/errors"
	"gcal-sync/modules/gcalsync/entity"
	"gcal-sync/modules/gcalsync/mapper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHostRepository struct {
	user    *entity.HostUser
	booking *entity.Booking

	savedTokens   []string
	updatedEvents []string
}

func (r *stubHostRepository) GetUserByID(ctx context.Context, table string, fields mapper.UserFields, id int64) (*entity.HostUser, error) {
	return r.user, nil
}

func (r *stubHostRepository) GetBookingByID(ctx context.Context, table string, fields mapper.BookingFields, id int64) (*entity.Booking, error) {
	return r.booking, nil
}

func (r *stubHostRepository) UpdateBookingEvent(ctx context.Context, table string, fields mapper.BookingFields, id int64, eventID, meetLink string) error {
	r.updatedEvents = append(r.updatedEvents, eventID)
	return nil
}

func (r *stubHostRepository) SaveUserTokens(ctx context.Context, table string, fields mapper.UserFields, userID int64, refreshToken, calendarID string) error {
	r.savedTokens = append(r.savedTokens, refreshToken)
	return nil
}

func testPluginSettings() config.PluginSettings {
	return config.PluginSettings{
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		BaseURL:       "https://business-system.app",
		UsersTable:    "users",
		BookingsTable: "bookings",
		BookingFields: "id,host_user_id,guest_name,guest_email,guest_email2,guest_email3,guest_email4,start_time,end_time,status,google_event_id,meeting_link",
		UserFields:    "google_refresh_token,calendar_id",
	}
}

func TestAuthCodeURL(t *testing.T) {
	svc := NewSyncService(&stubHostRepository{})

	rawURL, appErr := svc.AuthCodeURL(testPluginSettings(), 7)
	require.Nil(t, appErr)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "7", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "force", q.Get("approval_prompt"))
	assert.Contains(t, q.Get("scope"), "auth/calendar")
	assert.Equal(t, "https://business-system.app/plugin/google-calendar-sync/oauth2/callback", q.Get("redirect_uri"))
}

func TestAuthCodeURLMissingCredentials(t *testing.T) {
	svc := NewSyncService(&stubHostRepository{})
	cfg := testPluginSettings()
	cfg.ClientSecret = ""

	_, appErr := svc.AuthCodeURL(cfg, 7)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConfigMissing, appErr.Code)
}

func TestHandleCallbackNonNumericState(t *testing.T) {
	repo := &stubHostRepository{}
	svc := NewSyncService(repo)

	appErr := svc.HandleCallback(context.Background(), testPluginSettings(), "some-code", "abc")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)
	assert.Empty(t, repo.savedTokens, "nothing may be persisted on a bad state")
}

func TestHandleCallbackMissingCode(t *testing.T) {
	repo := &stubHostRepository{}
	svc := NewSyncService(repo)

	appErr := svc.HandleCallback(context.Background(), testPluginSettings(), "", "7")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRequestData, appErr.Code)
	assert.True(t, strings.Contains(appErr.Message, "code"))
	assert.Empty(t, repo.savedTokens)
}

func TestPushBookingNotFound(t *testing.T) {
	svc := NewSyncService(&stubHostRepository{booking: nil})

	_, appErr := svc.PushBooking(context.Background(), testPluginSettings(), 99)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestPushBookingHostNotFound(t *testing.T) {
	svc := NewSyncService(&stubHostRepository{
		booking: &entity.Booking{ID: 1, HostUserID: 5},
		user:    nil,
	})

	_, appErr := svc.PushBooking(context.Background(), testPluginSettings(), 1)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestPushBookingUnlinkedHost(t *testing.T) {
	repo := &stubHostRepository{
		booking: &entity.Booking{ID: 1, HostUserID: 5},
		user:    &entity.HostUser{ID: 5},
	}
	svc := NewSyncService(repo)

	_, appErr := svc.PushBooking(context.Background(), testPluginSettings(), 1)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	assert.Empty(t, repo.updatedEvents, "no write-back without an insert")
}

func TestPushBookingMalformedMapping(t *testing.T) {
	svc := NewSyncService(&stubHostRepository{})
	cfg := testPluginSettings()
	cfg.BookingFields = "id,host_user_id"

	_, appErr := svc.PushBooking(context.Background(), cfg, 1)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConfigMissing, appErr.Code)
}
