package config

// EnvPrefix scopes every configuration variable read by envconfig.
const EnvPrefix = "TRIPMATE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, exported so tests and tooling can reference
// them without duplicating strings.
const (
	EnvAppEnv       = "TRIPMATE_APP_ENV"
	EnvPort         = "TRIPMATE_APP_PORT"
	EnvLogLevel     = "TRIPMATE_LOG_LEVEL"
	EnvJWTSecret    = "TRIPMATE_JWT_SECRET"
	EnvJWTIssuer    = "TRIPMATE_JWT_ISSUER"
	EnvJWTExpMins   = "TRIPMATE_JWT_EXPIRATION_MINUTES"
	EnvSnapshotPath = "TRIPMATE_SNAPSHOT_PATH"
	EnvCORSOrigins  = "TRIPMATE_CORS_ALLOWED_ORIGINS"
)
