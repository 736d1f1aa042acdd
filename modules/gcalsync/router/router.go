package router

import (
	"gcal-sync/core/constants"
	"gcal-sync/core/middleware"
	"gcal-sync/modules/gcalsync/controller"

	"github.com/labstack/echo/v4"
)

type SyncRouter struct {
	controller *controller.SyncController
}

func NewSyncRouter(controller *controller.SyncController) *SyncRouter {
	return &SyncRouter{
		controller: controller,
	}
}

func (r *SyncRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	plugin := e.Group("/plugin/" + constants.PluginName)

	// OAuth linking
	plugin.GET("/oauth2/init", r.controller.OAuthInit, mw.AuthMiddleware())
	plugin.GET("/oauth2/callback", r.controller.OAuthCallback)

	// Booking push
	plugin.POST("/bookings/push", r.controller.PushWebhook)
	plugin.GET("/bookings/push/:id", r.controller.PushManual, mw.AuthMiddleware(), mw.AdminMiddleware())
}
