package controller

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"gcal-sync/core/config"
	"gcal-sync/core/controller"
	"gcal-sync/core/errors"
	"gcal-sync/core/logger"
	"gcal-sync/core/middleware"
	"gcal-sync/modules/gcalsync/dto"
	"gcal-sync/modules/gcalsync/service"

	"github.com/labstack/echo/v4"
)

const webhookSecretHeader = "X-Webhook-Secret"

type SyncController struct {
	controller.BaseController
	service service.SyncService
}

func NewSyncController(svc service.SyncService) *SyncController {
	return &SyncController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// OAuthInit redirects the authenticated host user to the Google consent page.
// GET /plugin/google-calendar-sync/oauth2/init
func (c *SyncController) OAuthInit(ctx echo.Context) error {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Please log in to link Google Calendar")
	}

	cfg := config.PluginConfig()
	url, appErr := c.service.AuthCodeURL(cfg, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.Redirect(http.StatusFound, url)
}

// OAuthCallback exchanges the authorization code and confirms the link in
// plain text. The state value is only an identifier.
// GET /plugin/google-calendar-sync/oauth2/callback
func (c *SyncController) OAuthCallback(ctx echo.Context) error {
	cfg := config.PluginConfig()
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")

	if appErr := c.service.HandleCallback(ctx.Request().Context(), cfg, code, state); appErr != nil {
		if appErr.Code == errors.ErrInvalidRequestData {
			return ctx.String(http.StatusBadRequest, appErr.Message)
		}
		logger.Error("SyncController:OAuthCallback:Error", "error", appErr)
		return ctx.String(http.StatusInternalServerError, "OAuth callback failed")
	}

	return ctx.String(http.StatusOK, "Google Calendar linked successfully.")
}

// PushWebhook creates a calendar event for a booking. Authenticated by the
// shared webhook secret; bad-secret requests perform no database writes.
// POST /plugin/google-calendar-sync/bookings/push
func (c *SyncController) PushWebhook(ctx echo.Context) error {
	cfg := config.PluginConfig()

	secret := ctx.Request().Header.Get(webhookSecretHeader)
	if cfg.SyncSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.SyncSecret)) != 1 {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	requestData := new(dto.PushBookingRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if requestData.BookingID <= 0 {
		return c.BadRequest(errors.ErrInvalidRequestData, "Missing booking_id")
	}

	resp, appErr := c.service.PushBooking(ctx.Request().Context(), cfg, requestData.BookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// PushManual is the admin-only manual push, rendering a plain-text
// confirmation.
// GET /plugin/google-calendar-sync/bookings/push/:id
func (c *SyncController) PushManual(ctx echo.Context) error {
	bookingID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid booking id")
	}

	cfg := config.PluginConfig()
	resp, appErr := c.service.PushBooking(ctx.Request().Context(), cfg, bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return ctx.String(http.StatusOK, "Pushed. Event ID: "+resp.EventID)
}
