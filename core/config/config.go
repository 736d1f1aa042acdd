package config

import (
	"fmt"

	"gcal-sync/core/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type AuthConfig struct {
	JWTSecret string
}

// Config holds the static infrastructure configuration, loaded once at startup.
// Plugin-level settings are deliberately not part of it; they are re-read on
// every request via PluginConfig so administrative changes apply immediately.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

// PluginSettings is the plugin configuration snapshot for a single request.
type PluginSettings struct {
	ClientID            string
	ClientSecret        string
	BaseURL             string
	SyncSecret          string
	UsersTable          string
	BookingsTable       string
	BookingFields       string
	UserFields          string
	GenerateMeetIfEmpty bool
	ProvisionSchema     bool
}

var instance *Config

func Load() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 7070)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "postgres")

	viper.SetDefault("USERS_TABLE", "users")
	viper.SetDefault("BOOKINGS_TABLE", "bookings")
	viper.SetDefault("BOOKING_FIELDS",
		"id,host_user_id,guest_name,guest_email,guest_email2,guest_email3,guest_email4,start_time,end_time,status,google_event_id,meeting_link")
	viper.SetDefault("USER_FIELDS", "google_refresh_token,calendar_id")

	if !viper.IsSet("GCAL_SYNC_SECRET") {
		viper.SetDefault("GCAL_SYNC_SECRET", utils.GenerateRandomString(24))
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	instance = cfg
	return nil
}

func GetSafe() (*Config, bool) {
	if instance == nil {
		return nil, false
	}
	return instance, true
}

// PluginConfig resolves the plugin settings from the live configuration store.
// No copy is cached across requests.
func PluginConfig() PluginSettings {
	return PluginSettings{
		ClientID:            viper.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret:        viper.GetString("GOOGLE_CLIENT_SECRET"),
		BaseURL:             viper.GetString("BASE_URL"),
		SyncSecret:          viper.GetString("GCAL_SYNC_SECRET"),
		UsersTable:          viper.GetString("USERS_TABLE"),
		BookingsTable:       viper.GetString("BOOKINGS_TABLE"),
		BookingFields:       viper.GetString("BOOKING_FIELDS"),
		UserFields:          viper.GetString("USER_FIELDS"),
		GenerateMeetIfEmpty: Bool("GCAL_GENERATE_MEET_IF_EMPTY", true),
		ProvisionSchema:     Bool("GCAL_PROVISION_SCHEMA", false),
	}
}

// Bool reads a boolean setting. Stored values true, "true" and numeric 1 are
// true; an unset value yields the supplied default; anything else is false.
func Bool(name string, def bool) bool {
	return coerceBool(viper.Get(name), def)
}

func coerceBool(v any, def bool) bool {
	switch val := v.(type) {
	case nil:
		return def
	case bool:
		return val
	case string:
		return val == "true"
	case int:
		return val == 1
	case int64:
		return val == 1
	case float64:
		return val == 1
	default:
		return false
	}
}
