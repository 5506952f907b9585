package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	WhatsApp WhatsAppConfig
	REST     RESTFallbackConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GOLMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"GOLMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GOLMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GOLMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GOLMARKET_DB_DSN"`
	Driver string `envconfig:"GOLMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GOLMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"GOLMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GOLMARKET_DB_USER"`
	LegacyPassword string `envconfig:"GOLMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"GOLMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"GOLMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GOLMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GOLMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GOLMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GOLMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GOLMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GOLMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"GOLMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"GOLMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GOLMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GOLMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GOLMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GOLMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GOLMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GOLMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GOLMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GOLMARKET_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// WhatsAppConfig carries the destination identity for order handoff links.
type WhatsAppConfig struct {
	Phone       string `envconfig:"GOLMARKET_WHATSAPP_PHONE" required:"true"`
	CountryCode string `envconfig:"GOLMARKET_PHONE_COUNTRY_CODE" default:"+57"`
}

// RESTFallbackConfig points at the row-store's raw HTTP surface used when the
// primary database write fails.
type RESTFallbackConfig struct {
	BaseURL string        `envconfig:"GOLMARKET_REST_BASE_URL"`
	Token   string        `envconfig:"GOLMARKET_REST_TOKEN"`
	Timeout time.Duration `envconfig:"GOLMARKET_REST_TIMEOUT" default:"10s"`
}

// Enabled reports whether the secondary write tier is configured at all.
func (r RESTFallbackConfig) Enabled() bool {
	return strings.TrimSpace(r.BaseURL) != ""
}

// CartConfig bounds how long an untouched guest cart survives in Redis.
type CartConfig struct {
	GuestTTL time.Duration `envconfig:"GOLMARKET_GUEST_CART_TTL" default:"168h"`
}

type CheckoutConfig struct {
	PendingQueueTTL time.Duration `envconfig:"GOLMARKET_CHECKOUT_PENDING_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GOLMARKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GOLMARKET_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
