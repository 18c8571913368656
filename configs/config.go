package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"CodEd"`
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	SeedCatalog bool   `env:"SEED_CATALOG" envDefault:"true"`

	JWTSecret        string        `env:"JWT_SECRET,notEmpty"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure     bool          `env:"COOKIE_SECURE" envDefault:"false"`
	CORSAllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`

	BrevoAPIKey     string `env:"BREVO_API_KEY"`
	EmailSender     string `env:"EMAIL_SENDER"`
	EmailSenderName string `env:"EMAIL_SENDER_NAME"`

	CloudinaryURL       string `env:"CLOUDINARY_URL"`
	CertificatesEnabled bool   `env:"CERTIFICATES_ENABLED" envDefault:"false"`

	StreakJobSpec       string `env:"STREAK_JOB_SPEC" envDefault:"5 0 * * *"`
	SessionPurgeJobSpec string `env:"SESSION_PURGE_JOB_SPEC" envDefault:"*/30 * * * *"`
}

// Load reads .env when present and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
