package constants

import "time"

const (
	DefaultTimeout = 30 * time.Second

	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

const (
	// PluginName is the fixed path segment for all plugin routes and must
	// match the redirect URI registered with Google.
	PluginName = "google-calendar-sync"

	DefaultCalendarID = "primary"
)
