package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/clinic-api/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Log       logger.Config   `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// AllowedOrigins may call the API from a browser with credentials.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the connection string, preferring an explicit URL.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type AuthConfig struct {
	BcryptCost        int           `mapstructure:"bcrypt_cost"`
	MaxFailedAttempts int           `mapstructure:"max_failed_attempts"`
	LockoutDuration   time.Duration `mapstructure:"lockout_duration"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

type ScheduleConfig struct {
	// Timezone is the IANA zone doctor availability windows are written in.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone, defaulting to UTC.
func (c ScheduleConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// envOverrides are read from CLINIC_* variables and win over the file.
type envOverrides struct {
	Port           int     `envconfig:"PORT"`
	DatabaseURL    string  `envconfig:"DATABASE_URL"`
	DBHost         string  `envconfig:"DB_HOST"`
	DBPort         int     `envconfig:"DB_PORT"`
	DBUser         string  `envconfig:"DB_USER"`
	DBPassword     string  `envconfig:"DB_PASSWORD"`
	DBName         string  `envconfig:"DB_NAME"`
	RedisURL       string  `envconfig:"REDIS_URL"`
	SessionSecret  string  `envconfig:"SESSION_SECRET"`
	SMTPHost       string  `envconfig:"SMTP_HOST"`
	SMTPPort       int     `envconfig:"SMTP_PORT"`
	SMTPUsername   string  `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string  `envconfig:"SMTP_PASSWORD"`
	LogLevel       string  `envconfig:"LOG_LEVEL"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST"`
	Timezone       string  `envconfig:"TIMEZONE"`
}

const envPrefix = "CLINIC"

func LoadConfig() (*Config, error) {
	return Load(".", "./config", "/app/config")
}

// Load reads config.yml from the first matching path, then applies .env and
// CLINIC_* environment overrides.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	env.apply(&cfg)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookie_name", "session_token")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.max_failed_attempts", 5)
	v.SetDefault("auth.lockout_duration", 15*time.Minute)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@clinic.local")
	v.SetDefault("log.level", "info")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "clinic_api")
	v.SetDefault("schedule.timezone", "UTC")
}

func (e envOverrides) apply(cfg *Config) {
	if e.Port != 0 {
		cfg.Server.Port = e.Port
	}
	if e.DatabaseURL != "" {
		cfg.Database.URL = e.DatabaseURL
	}
	if e.DBHost != "" {
		cfg.Database.Host = e.DBHost
	}
	if e.DBPort != 0 {
		cfg.Database.Port = e.DBPort
	}
	if e.DBUser != "" {
		cfg.Database.User = e.DBUser
	}
	if e.DBPassword != "" {
		cfg.Database.Password = e.DBPassword
	}
	if e.DBName != "" {
		cfg.Database.Name = e.DBName
	}
	if e.RedisURL != "" {
		cfg.Redis.URL = e.RedisURL
	}
	if e.SessionSecret != "" {
		cfg.Session.Secret = e.SessionSecret
	}
	if e.SMTPHost != "" {
		cfg.SMTP.Host = e.SMTPHost
	}
	if e.SMTPPort != 0 {
		cfg.SMTP.Port = e.SMTPPort
	}
	if e.SMTPUsername != "" {
		cfg.SMTP.Username = e.SMTPUsername
	}
	if e.SMTPPassword != "" {
		cfg.SMTP.Password = e.SMTPPassword
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.RateLimitRPS != 0 {
		cfg.RateLimit.RequestsPerSecond = e.RateLimitRPS
	}
	if e.RateLimitBurst != 0 {
		cfg.RateLimit.Burst = e.RateLimitBurst
	}
	if e.Timezone != "" {
		cfg.Schedule.Timezone = e.Timezone
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("session secret is required (set CLINIC_SESSION_SECRET)")
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := c.Schedule.Location(); err != nil {
		return err
	}
	return nil
}
