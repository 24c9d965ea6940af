package config

// EnvPrefix is handed to envconfig; every field also carries its full name as an alt key.
const EnvPrefix = "SNACKS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "SNACKS_APP_ENV"
	EnvPort        = "SNACKS_APP_PORT"
	EnvLogLevel    = "SNACKS_LOG_LEVEL"
	EnvTimezone    = "SNACKS_TIMEZONE"
	EnvDBDSN       = "SNACKS_DB_DSN"
	EnvDBDriver    = "SNACKS_DB_DRIVER"
	EnvDBHost      = "SNACKS_DB_HOST"
	EnvDBUser      = "SNACKS_DB_USER"
	EnvDBName      = "SNACKS_DB_NAME"
	EnvDBPassword  = "SNACKS_DB_PASSWORD"
	EnvRedisURL    = "SNACKS_REDIS_URL"
	EnvJWTSecret   = "SNACKS_JWT_SECRET"
	EnvJWTExpMins  = "SNACKS_JWT_EXPIRATION_MINUTES"
	EnvAdminPass   = "SNACKS_ADMIN_PASSWORD"
	EnvAdminHash   = "SNACKS_ADMIN_PASSWORD_HASH"
	EnvNaverID     = "SNACKS_NAVER_CLIENT_ID"
	EnvNaverSecret = "SNACKS_NAVER_CLIENT_SECRET"
	EnvCORSOrigins = "SNACKS_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
