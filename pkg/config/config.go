package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Snapshot SnapshotConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRIPMATE_APP_ENV" required:"true"`
	Port         string `envconfig:"TRIPMATE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TRIPMATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRIPMATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type JWTConfig struct {
	Secret            string `envconfig:"TRIPMATE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRIPMATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TRIPMATE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// SnapshotConfig controls the JSON snapshot persisted after each mutation.
// An empty path disables persistence entirely (tests, ephemeral dev runs).
type SnapshotConfig struct {
	Path string `envconfig:"TRIPMATE_SNAPSHOT_PATH"`
}

func (s SnapshotConfig) Enabled() bool {
	return strings.TrimSpace(s.Path) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TRIPMATE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}
