package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Admin        AdminConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Naver        NaverConfig
	Cron         CronConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SNACKS_APP_ENV" required:"true"`
	Port         string `envconfig:"SNACKS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SNACKS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SNACKS_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"SNACKS_TIMEZONE" default:"Asia/Seoul"`
}

func (a AppConfig) IsDev() bool {
	return matchesEnv(a.Env, AppEnvDev, "development", "local")
}

func (a AppConfig) IsProd() bool {
	return matchesEnv(a.Env, AppEnvProd, "production")
}

// Location resolves the timezone the weekly cycle is computed in.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

func matchesEnv(value string, names ...string) bool {
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(value), name) {
			return true
		}
	}
	return false
}

type DBConfig struct {
	DSN    string `envconfig:"SNACKS_DB_DSN"`
	Driver string `envconfig:"SNACKS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SNACKS_DB_HOST"`
	LegacyPort     int    `envconfig:"SNACKS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SNACKS_DB_USER"`
	LegacyPassword string `envconfig:"SNACKS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SNACKS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SNACKS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SNACKS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SNACKS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SNACKS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SNACKS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"SNACKS_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SNACKS_REDIS_URL"`
	Address      string        `envconfig:"SNACKS_REDIS_ADDR"`
	Password     string        `envconfig:"SNACKS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SNACKS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SNACKS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SNACKS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SNACKS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SNACKS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"SNACKS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// JWTConfig signs the admin session token.
type JWTConfig struct {
	Secret            string `envconfig:"SNACKS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SNACKS_JWT_ISSUER" default:"snackcycle"`
	ExpirationMinutes int    `envconfig:"SNACKS_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// TTL returns the token lifetime, which is also the admin session lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SNACKS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SNACKS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SNACKS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SNACKS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SNACKS_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig holds the shared admin secret. PasswordHash (argon2id) wins over Password.
type AdminConfig struct {
	Password     string `envconfig:"SNACKS_ADMIN_PASSWORD"`
	PasswordHash string `envconfig:"SNACKS_ADMIN_PASSWORD_HASH"`
	CookieSecure bool   `envconfig:"SNACKS_ADMIN_COOKIE_SECURE" default:"false"`
}

// Configured reports whether any admin secret is available.
func (a AdminConfig) Configured() bool {
	return strings.TrimSpace(a.PasswordHash) != "" || a.Password != ""
}

type RateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"SNACKS_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"SNACKS_RATE_LIMIT_LOGIN_IP_LIMIT" default:"10"`
	VoteWindow   time.Duration `envconfig:"SNACKS_RATE_LIMIT_VOTE_WINDOW" default:"1m"`
	VoteIPLimit  int           `envconfig:"SNACKS_RATE_LIMIT_VOTE_IP_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SNACKS_AUTO_MIGRATE" default:"false"`
}

// NaverConfig configures the shopping search API used for trending data.
type NaverConfig struct {
	ClientID     string        `envconfig:"SNACKS_NAVER_CLIENT_ID"`
	ClientSecret string        `envconfig:"SNACKS_NAVER_CLIENT_SECRET"`
	BaseURL      string        `envconfig:"SNACKS_NAVER_BASE_URL" default:"https://openapi.naver.com/v1/search"`
	Timeout      time.Duration `envconfig:"SNACKS_NAVER_TIMEOUT" default:"5s"`
}

func (n NaverConfig) Configured() bool {
	return strings.TrimSpace(n.ClientID) != "" && strings.TrimSpace(n.ClientSecret) != ""
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"SNACKS_CRON_INTERVAL" default:"24h"`
	PurgeRetired    bool          `envconfig:"SNACKS_CRON_PURGE_RETIRED" default:"true"`
	RefreshTrending bool          `envconfig:"SNACKS_CRON_REFRESH_TRENDING" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SNACKS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DriverSQLite)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
