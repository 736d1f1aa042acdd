package service

import (
	"context"
	"fmt"
	"strconv"

	"gcal-sync/core/config"
	"gcal-sync/core/constants"
	"gcal-sync/core/errors"
	"gcal-sync/core/logger"
	"gcal-sync/modules/gcalsync/dto"
	"gcal-sync/modules/gcalsync/mapper"
	"gcal-sync/modules/gcalsync/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

type SyncService interface {
	// OAuth linking
	AuthCodeURL(cfg config.PluginSettings, userID int64) (string, *errors.AppError)
	HandleCallback(ctx context.Context, cfg config.PluginSettings, code, state string) *errors.AppError

	// Booking push
	PushBooking(ctx context.Context, cfg config.PluginSettings, bookingID int64) (*dto.PushBookingResponse, *errors.AppError)
}

type syncService struct {
	repo repository.HostRepository
}

func NewSyncService(repo repository.HostRepository) SyncService {
	return &syncService{repo: repo}
}

// oauthConfig builds the OAuth2 client configuration from the plugin settings.
// The redirect URL must exactly match the value registered with Google.
func oauthConfig(cfg config.PluginSettings) (*oauth2.Config, *errors.AppError) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.NewAppError(errors.ErrConfigMissing, "Missing plugin configuration for Google OAuth2", nil)
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  fmt.Sprintf("%s/plugin/%s/oauth2/callback", cfg.BaseURL, constants.PluginName),
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}, nil
}

// AuthCodeURL returns the Google consent URL for the given host user. The
// state parameter carries the user id; it is attacker-visible and only an
// identifier, never a secret.
func (s *syncService) AuthCodeURL(cfg config.PluginSettings, userID int64) (string, *errors.AppError) {
	oc, appErr := oauthConfig(cfg)
	if appErr != nil {
		logger.Error("SyncService:AuthCodeURL:Config:Error", "error", appErr, "user_id", userID)
		return "", appErr
	}

	// Offline access plus forced consent so Google re-issues a refresh token.
	url := oc.AuthCodeURL(strconv.FormatInt(userID, 10), oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return url, nil
}

// parseState converts the echoed OAuth state back into a host user id.
func parseState(state string) (int64, error) {
	userID, err := strconv.ParseInt(state, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid state %q", state)
	}
	return userID, nil
}

// HandleCallback exchanges the authorization code and persists the refresh
// token on the host user's row. Nothing is persisted on any failure path.
func (s *syncService) HandleCallback(ctx context.Context, cfg config.PluginSettings, code, state string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	if code == "" {
		return errors.NewAppError(errors.ErrInvalidRequestData, "Missing code", nil)
	}

	userID, err := parseState(state)
	if err != nil {
		logger.Warn("SyncService:HandleCallback:InvalidState", "state", state)
		return errors.NewAppError(errors.ErrInvalidRequestData, "Invalid state", nil)
	}

	userFields, err := mapper.NewUserFields(cfg.UserFields)
	if err != nil {
		logger.Error("SyncService:HandleCallback:FieldMapping:Error", "error", err)
		return errors.NewAppError(errors.ErrConfigMissing, "Invalid user field mapping", nil)
	}

	oc, appErr := oauthConfig(cfg)
	if appErr != nil {
		logger.Error("SyncService:HandleCallback:Config:Error", "error", appErr)
		return appErr
	}

	token, err := oc.Exchange(ctx, code)
	if err != nil {
		logger.Error("SyncService:HandleCallback:Exchange:Error", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrProvider, "OAuth callback failed", err)
	}

	// Google only returns a refresh token on first consent. Without one the
	// link is unusable, so fail loudly instead of silently succeeding.
	if token.RefreshToken == "" {
		logger.Warn("SyncService:HandleCallback:NoRefreshToken", "user_id", userID)
		return errors.NewAppError(errors.ErrInvalidRequestData,
			"No refresh token returned. Remove app from Google permissions and retry.", nil)
	}

	if err := s.repo.SaveUserTokens(ctx, cfg.UsersTable, userFields, userID, token.RefreshToken, constants.DefaultCalendarID); err != nil {
		logger.Error("SyncService:HandleCallback:SaveUserTokens:Error", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to save tokens", err)
	}

	logger.Info("SyncService:HandleCallback:Linked", "user_id", userID)
	return nil
}

// PushBooking loads the booking and its host user, creates the calendar event
// and returns the created event id and meeting link.
func (s *syncService) PushBooking(ctx context.Context, cfg config.PluginSettings, bookingID int64) (*dto.PushBookingResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	bookingFields, err := mapper.NewBookingFields(cfg.BookingFields)
	if err != nil {
		logger.Error("SyncService:PushBooking:FieldMapping:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrConfigMissing, "Invalid booking field mapping", nil)
	}
	userFields, err := mapper.NewUserFields(cfg.UserFields)
	if err != nil {
		logger.Error("SyncService:PushBooking:FieldMapping:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrConfigMissing, "Invalid user field mapping", nil)
	}

	booking, err := s.repo.GetBookingByID(ctx, cfg.BookingsTable, bookingFields, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}

	user, err := s.repo.GetUserByID(ctx, cfg.UsersTable, userFields, booking.HostUserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load host user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Host user not found", nil)
	}

	event, appErr := s.createGoogleEvent(ctx, cfg, user, booking, bookingFields)
	if appErr != nil {
		return nil, appErr
	}

	return dto.NewPushBookingResponse(event.Id, extractMeetLink(event)), nil
}
