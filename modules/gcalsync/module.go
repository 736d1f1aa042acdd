package gcalsync

import (
	"context"
	"fmt"

	"gcal-sync/core/config"
	"gcal-sync/core/database"
	"gcal-sync/core/middleware"
	"gcal-sync/modules/gcalsync/controller"
	"gcal-sync/modules/gcalsync/mapper"
	"gcal-sync/modules/gcalsync/repository"
	"gcal-sync/modules/gcalsync/router"
	"gcal-sync/modules/gcalsync/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) error {
	cfg, ok := config.GetSafe()
	if !ok {
		return fmt.Errorf("config not initialized")
	}

	// Malformed field mappings are rejected here instead of surfacing later
	// as database errors. Requests re-resolve the mappings so configuration
	// changes apply without a restart.
	plugin := config.PluginConfig()
	bookingFields, err := mapper.NewBookingFields(plugin.BookingFields)
	if err != nil {
		return err
	}
	userFields, err := mapper.NewUserFields(plugin.UserFields)
	if err != nil {
		return err
	}

	if plugin.ProvisionSchema {
		if err := repository.EnsureSchema(context.Background(), db, plugin.UsersTable, plugin.BookingsTable, bookingFields, userFields); err != nil {
			return err
		}
	}

	// Initialize layers
	repo := repository.NewHostRepository(db)
	svc := service.NewSyncService(repo)
	ctrl := controller.NewSyncController(svc)
	mw := middleware.NewMiddleware(cfg)

	// Setup routes
	router.NewSyncRouter(ctrl).Setup(e, mw)
	return nil
}
