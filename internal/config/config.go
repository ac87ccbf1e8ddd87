package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	App      AppConfig      `toml:"app" validate:"required"`
	Auth     AuthConfig     `toml:"auth" validate:"required"`
	Database DatabaseConfig `toml:"database" validate:"required"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	HTTP     HTTPConfig     `toml:"http"`
}

type AppConfig struct {
	Name     string `toml:"name" validate:"required"`
	Env      string `toml:"env" validate:"required,oneof=dev test prod"`
	Host     string `toml:"host"`
	Port     int    `toml:"port" validate:"required,gt=0,lt=65536"`
	GinMode  string `toml:"gin_mode" validate:"oneof=debug release test"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret" validate:"required,min=8"`
	JWTExpireMinute int    `toml:"jwt_expire_minute" validate:"required,gt=0"`
	BcryptCost      int    `toml:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// DatabaseConfig selects the storage engine. sqlite is the default and is
// opened with a single connection; mysql and postgres use the pool settings.
type DatabaseConfig struct {
	Driver       string `toml:"driver" validate:"required,oneof=sqlite mysql postgres"`
	Path         string `toml:"path"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Name         string `toml:"name"`
	Params       string `toml:"params"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	LogLevel     string `toml:"log_level" validate:"oneof=silent error warn info"`
}

// RedisConfig is optional; an empty Addr disables token revocation.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RabbitMQConfig is optional; an empty URL disables feed events.
type RabbitMQConfig struct {
	URL            string `toml:"url"`
	FeedEventQueue string `toml:"feed_event_queue"`
}

type HTTPConfig struct {
	LoginRatePerSecond float64 `toml:"login_rate_per_second" validate:"gte=0"`
	LoginBurst         int     `toml:"login_burst" validate:"gte=0"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config failed: %w", err)
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.FeedEventQueue == "" {
		return fmt.Errorf("validate config failed: rabbitmq.feed_event_queue is required when rabbitmq.url is set")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// DSN renders the connection string for the configured driver.
func (c *Config) DSN() string {
	db := c.Database
	switch db.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", db.User, db.Password, db.Host, db.Port, db.Name, db.Params)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s", db.Host, db.Port, db.User, db.Password, db.Name)
		if db.Params != "" {
			dsn += " " + db.Params
		}
		return dsn
	default:
		return db.Path
	}
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "feedgraph",
			Env:      "dev",
			Host:     "0.0.0.0",
			Port:     4000,
			GinMode:  "debug",
			LogLevel: "info",
		},
		Auth: AuthConfig{
			JWTSecret:       "dev-secret-change-in-production",
			JWTExpireMinute: 7 * 24 * 60,
			BcryptCost:      10,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Path:         "data/feedgraph.db",
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			Name:         "feedgraph",
			Params:       "parseTime=true&loc=Local&charset=utf8mb4",
			MaxOpenConns: 50,
			MaxIdleConns: 10,
			LogLevel:     "warn",
		},
		RabbitMQ: RabbitMQConfig{
			FeedEventQueue: "feed.events",
		},
		HTTP: HTTPConfig{
			LoginRatePerSecond: 5,
			LoginBurst:         10,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireMinute = getEnvAsInt("JWT_EXPIRE_MINUTE", cfg.Auth.JWTExpireMinute)
	cfg.Auth.BcryptCost = getEnvAsInt("BCRYPT_COST", cfg.Auth.BcryptCost)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.Params = getEnv("DB_PARAMS", cfg.Database.Params)
	cfg.Database.LogLevel = getEnv("DB_LOG_LEVEL", cfg.Database.LogLevel)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.FeedEventQueue = getEnv("RABBITMQ_FEED_EVENT_QUEUE", cfg.RabbitMQ.FeedEventQueue)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
