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
	Session      SessionConfig
	Gateway      GatewayConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOP_DB_DSN"`
	Driver string `envconfig:"SHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOP_DB_USER"`
	LegacyPassword string `envconfig:"SHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"SHOP_SESSION_COOKIE" default:"shop_session"`
	TTL        time.Duration `envconfig:"SHOP_SESSION_TTL" default:"336h"`
	Secure     bool          `envconfig:"SHOP_SESSION_SECURE" default:"true"`
}

type GatewayConfig struct {
	MerchantID string `envconfig:"SHOP_GATEWAY_MERCHANT_ID" required:"true"`
	Username   string `envconfig:"SHOP_GATEWAY_USERNAME" required:"true"`
	Password   string `envconfig:"SHOP_GATEWAY_PASSWORD" required:"true"`
	BaseLink   string `envconfig:"SHOP_GATEWAY_BASE_LINK" default:"https://my.paylov.uz/checkout/create"`
	ReturnURL  string `envconfig:"SHOP_GATEWAY_RETURN_URL" default:"https://darkandwhite.uz/"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOP_AUTO_MIGRATE" default:"false"`
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
