package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Queue     QueueConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Queue.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QUEUEDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"QUEUEDESK_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"QUEUEDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUEUEDESK_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"QUEUEDESK_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"QUEUEDESK_DB_DSN"`

	Host     string `envconfig:"QUEUEDESK_DB_HOST"`
	Port     int    `envconfig:"QUEUEDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"QUEUEDESK_DB_USER"`
	Password string `envconfig:"QUEUEDESK_DB_PASSWORD"`
	Name     string `envconfig:"QUEUEDESK_DB_NAME"`
	SSLMode  string `envconfig:"QUEUEDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUEUEDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUEUEDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUEUEDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUEUEDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from discrete fields when one is not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database config requires QUEUEDESK_DB_DSN or host/user/name fields")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"QUEUEDESK_REDIS_URL"`
	Address      string        `envconfig:"QUEUEDESK_REDIS_ADDR"`
	Password     string        `envconfig:"QUEUEDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUEUEDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUEUEDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUEUEDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUEUEDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUEUEDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUEUEDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QUEUEDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QUEUEDESK_JWT_ISSUER" default:"queuedesk"`
	ExpirationMinutes int    `envconfig:"QUEUEDESK_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"QUEUEDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QUEUEDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QUEUEDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QUEUEDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QUEUEDESK_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"QUEUEDESK_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginAadhaarLimit int           `envconfig:"QUEUEDESK_RATE_LIMIT_LOGIN_AADHAAR_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"QUEUEDESK_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	VerifyWindow      time.Duration `envconfig:"QUEUEDESK_RATE_LIMIT_VERIFY_WINDOW" default:"5m"`
	VerifyUserLimit   int           `envconfig:"QUEUEDESK_RATE_LIMIT_VERIFY_USER_LIMIT" default:"10"`
	VerifyIPLimit     int           `envconfig:"QUEUEDESK_RATE_LIMIT_VERIFY_IP_LIMIT" default:"60"`
}

// QueueConfig carries the office-facing queue knobs. Slot capacity and OTP
// length are deliberately not here: they are fixed constants with no runtime
// reconfiguration path, baked into the schema constraint and code generator.
type QueueConfig struct {
	TokenPrefix string `envconfig:"QUEUEDESK_TOKEN_PREFIX" default:"T"`
	Timezone    string `envconfig:"QUEUEDESK_OFFICE_TIMEZONE" default:"Asia/Kolkata"`
}

// Location resolves the office timezone used for "today" windows.
func (q QueueConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid office timezone %q: %w", q.Timezone, err)
	}
	return loc, nil
}
