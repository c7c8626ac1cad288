package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timeouts, granularity, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Mailer     MailerConfig
	Meet       MeetConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// SchedulingConfig carries the knobs of the slot engine. The token secret and
// the interval granularity are injected into the generator rather than read
// from ambient state so tests can pin them.
type SchedulingConfig struct {
	SlotTokenSecret     string `envconfig:"SLOT_TOKEN_SECRET" required:"true"`
	SlotIntervalMinutes int    `envconfig:"SLOT_INTERVAL_MINUTES" default:"15"`
}

// MinSlotIntervalMinutes is the floor for SLOT_INTERVAL_MINUTES.
const MinSlotIntervalMinutes = 5

// SlotIntervalOrDefault returns the configured slot granularity in minutes,
// clamped to the floor.
func (c SchedulingConfig) SlotIntervalOrDefault() int {
	if c.SlotIntervalMinutes < MinSlotIntervalMinutes {
		return MinSlotIntervalMinutes
	}
	return c.SlotIntervalMinutes
}

type MailerConfig struct {
	Provider           string `envconfig:"MAILER_PROVIDER" default:"noop"`
	FromAddress        string `envconfig:"MAILER_FROM_ADDRESS" default:"bookings@meetslot.local"`
	FromName           string `envconfig:"MAILER_FROM_NAME" default:"meetslot"`
	SESRegion          string `envconfig:"SES_REGION" default:"us-east-1"`
	SESAccessKeyID     string `envconfig:"SES_ACCESS_KEY_ID" default:""`
	SESSecretAccessKey string `envconfig:"SES_SECRET_ACCESS_KEY" default:""`
}

type MeetConfig struct {
	Provider     string `envconfig:"MEET_PROVIDER" default:"noop"`
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID" default:""`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" default:""`
	RefreshToken string `envconfig:"GOOGLE_REFRESH_TOKEN" default:""`
	CalendarID   string `envconfig:"GOOGLE_CALENDAR_ID" default:"primary"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level: "error",
		},
		JWT: JWTConfig{
			Secret: "test-jwt-secret",
		},
		Scheduling: SchedulingConfig{
			SlotTokenSecret:     "test-slot-secret",
			SlotIntervalMinutes: 15,
		},
	}
}
