package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rotisserie/eris"
)

// Config is the full runtime configuration, read from the environment.
// Nested sections resolve their bare tag names (PORT, DATABASE_URL, ...)
// so the variable names match what the deploy platform already sets.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`
	Server      ServerConfig
	Database    DatabaseConfig
	Log         LogConfig
	Geocoder    GeocoderConfig
	Email       EmailConfig
	Submissions SubmissionConfig
}

type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"5000" validate:"required,numeric"`
	AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,https://onewonderlake.com,https://www.onewonderlake.com"`
	PublicSiteURL  string        `envconfig:"PUBLIC_SITE_URL" default:"https://onewonderlake.com" validate:"url"`
	CookieSecure   bool          `envconfig:"COOKIE_SECURE" default:"false"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"6h" validate:"gt=0"`
	BuildInfoPath  string        `envconfig:"BUILD_INFO_PATH" default:""`
}

type DatabaseConfig struct {
	URL             string        `envconfig:"DATABASE_URL" required:"true" validate:"required"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20" validate:"gte=1"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"20" validate:"gte=0"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	SlowThreshold   time.Duration `envconfig:"DB_SLOW_THRESHOLD" default:"100ms"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
}

// GeocoderConfig points at a Nominatim-compatible search service. The public
// OSM instance requires an identifying User-Agent.
type GeocoderConfig struct {
	BaseURL    string        `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org" validate:"url"`
	UserAgent  string        `envconfig:"NOMINATIM_USER_AGENT" default:"OneWonderLake/1.0 (+https://onewonderlake.com)" validate:"required"`
	Email      string        `envconfig:"NOMINATIM_EMAIL" default:"" validate:"omitempty,email"`
	Timeout    time.Duration `envconfig:"GEOCODE_TIMEOUT" default:"10s" validate:"gt=0"`
	CacheTTL   time.Duration `envconfig:"GEOCODE_CACHE_TTL" default:"10m"`
	CheckDelay time.Duration `envconfig:"ADDRESS_CHECK_DELAY" default:"100ms" validate:"gte=0"`
}

type EmailConfig struct {
	ResendAPIKey     string `envconfig:"RESEND_API_KEY" default:""`
	ResendBaseURL    string `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com" validate:"url"`
	From             string `envconfig:"EMAIL_FROM" default:"One Wonder Lake <contact@onewonderlake.com>" validate:"required"`
	MonthlyLimit     int    `envconfig:"EMAIL_MONTHLY_LIMIT" default:"3000" validate:"gte=1"`
	ShutoffThreshold int    `envconfig:"EMAIL_SHUTOFF_THRESHOLD" default:"2500" validate:"gte=1,ltefield=MonthlyLimit"`
	WebhookSecret    string `envconfig:"RESEND_WEBHOOK_SECRET" default:""`
}

// Enabled reports whether outbound mail can be sent at all.
func (e EmailConfig) Enabled() bool { return e.ResendAPIKey != "" }

type SubmissionConfig struct {
	Limit  int           `envconfig:"SUBMISSION_RATE_LIMIT" default:"5" validate:"gte=1"`
	Window time.Duration `envconfig:"SUBMISSION_RATE_WINDOW" default:"1h" validate:"gt=0"`
}

// Load reads .env.local when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching
// any dotenv files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, eris.Wrap(err, "config: process env")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, eris.Wrap(err, "config: validate")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// LoadGeocoder reads only the geocoder section, for tools that never touch
// the database.
func LoadGeocoder() (GeocoderConfig, error) {
	_ = godotenv.Load(".env.local")
	var gc GeocoderConfig
	if err := envconfig.Process("", &gc); err != nil {
		return gc, eris.Wrap(err, "config: process geocoder env")
	}
	if err := validator.New().Struct(gc); err != nil {
		return gc, eris.Wrap(err, "config: validate geocoder")
	}
	return gc, nil
}
