package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	Port     string `env:"PORT" env-default:"8080"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Database Database
	JWT      JWT
	Uploads  Uploads

	AdminAPIKey       string   `env:"ADMIN_API_KEY"`
	CORSAllowOrigins  []string `env:"CORS_ALLOW_ORIGINS" env-default:"*" env-separator:","`
	StrictOrderStatus bool     `env:"ORDER_STRICT_STATUS" env-default:"false"`
}

type Database struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" env-default:"shop"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

type JWT struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET" env-required:"true"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" env-default:"720h"`
}

type Uploads struct {
	Dir             string        `env:"UPLOAD_DIR" env-default:"./uploads"`
	BackupDir       string        `env:"UPLOAD_BACKUP_DIR"`
	BackupHour      int           `env:"UPLOAD_BACKUP_HOUR" env-default:"2"`
	BackupRetention time.Duration `env:"UPLOAD_BACKUP_RETENTION" env-default:"96h"`
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if cfg.Uploads.BackupHour < 0 || cfg.Uploads.BackupHour > 23 {
		return nil, fmt.Errorf("UPLOAD_BACKUP_HOUR must be between 0 and 23, got %d", cfg.Uploads.BackupHour)
	}
	return &cfg, nil
}
