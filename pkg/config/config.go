package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full configuration surface for every binary in this repo.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	SMTP          SMTPConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load parses the environment into a Config and normalizes the DB DSN.
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
	Env          string `envconfig:"FARM2FORK_APP_ENV" required:"true"`
	Port         string `envconfig:"FARM2FORK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARM2FORK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FARM2FORK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FARM2FORK_DB_DSN"`

	Host     string `envconfig:"FARM2FORK_DB_HOST"`
	Port     int    `envconfig:"FARM2FORK_DB_PORT" default:"5432"`
	User     string `envconfig:"FARM2FORK_DB_USER"`
	Password string `envconfig:"FARM2FORK_DB_PASSWORD"`
	Name     string `envconfig:"FARM2FORK_DB_NAME"`
	SSLMode  string `envconfig:"FARM2FORK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARM2FORK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARM2FORK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARM2FORK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARM2FORK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARM2FORK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARM2FORK_REDIS_ADDR"`
	Password     string        `envconfig:"FARM2FORK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARM2FORK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARM2FORK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARM2FORK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARM2FORK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARM2FORK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARM2FORK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FARM2FORK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FARM2FORK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FARM2FORK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FARM2FORK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FARM2FORK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FARM2FORK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FARM2FORK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FARM2FORK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FARM2FORK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FARM2FORK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FARM2FORK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FARM2FORK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FARM2FORK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FARM2FORK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FARM2FORK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// SMTPConfig drives the outbound notification mailer. When Host is empty the
// mailer is wired as a no-op.
type SMTPConfig struct {
	Host        string `envconfig:"FARM2FORK_SMTP_HOST"`
	Port        int    `envconfig:"FARM2FORK_SMTP_PORT" default:"587"`
	Username    string `envconfig:"FARM2FORK_SMTP_USERNAME"`
	Password    string `envconfig:"FARM2FORK_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"FARM2FORK_SMTP_FROM_EMAIL" default:"no-reply@farm2fork.example"`
	AdminEmail  string `envconfig:"FARM2FORK_ADMIN_EMAIL"`
}

// Enabled reports whether an SMTP relay is configured.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FARM2FORK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
