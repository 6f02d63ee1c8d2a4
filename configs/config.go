package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	ML          MLServiceConfig   `mapstructure:"ml"`
	Predictions PredictionsConfig `mapstructure:"predictions"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Logger      LoggerConfig      `mapstructure:"logger"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	MaxConns    int32  `mapstructure:"max_conns"`
	MinConns    int32  `mapstructure:"min_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// MLServiceConfig holds settings for the external prediction service
type MLServiceConfig struct {
	URL                 string        `mapstructure:"url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	RequestsPerSecond   float64       `mapstructure:"requests_per_second"`
	CoalescePredictions bool          `mapstructure:"coalesce_predictions"`
}

// PredictionsConfig holds prediction persistence settings
type PredictionsConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	PurgeSchedule string        `mapstructure:"purge_schedule"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	ModelVersion  string        `mapstructure:"model_version"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	// AdminAPIKey guards the training endpoint when non-empty.
	AdminAPIKey string `mapstructure:"admin_api_key"`
}

// LoggerConfig holds logger settings
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// envBindings maps config keys to env vars. For aliases the first one set wins.
var envBindings = map[string][]string{
	"server.port":            {"PORT"},
	"server.env":             {"APP_ENV"},
	"database.url":           {"DATABASE_URL", "MONGO_URL", "MONGO_URI"},
	"ml.url":                 {"ML_SERVICE_URL"},
	"auth.admin_api_key":     {"ADMIN_API_KEY"},
	"logger.level":           {"LOG_LEVEL"},
	"logger.encoding":        {"LOG_ENCODING"},
	"predictions.ttl":        {"PREDICTION_TTL"},
	"ml.timeout":             {"ML_SERVICE_TIMEOUT"},
	"ml.requests_per_second": {"ML_SERVICE_RPS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3002")
	v.SetDefault("server.env", "development")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("ml.url", "http://localhost:5000")
	v.SetDefault("ml.timeout", 120*time.Second)
	v.SetDefault("ml.requests_per_second", 0)
	v.SetDefault("ml.coalesce_predictions", false)

	v.SetDefault("predictions.ttl", 7*24*time.Hour)
	v.SetDefault("predictions.purge_schedule", "@every 10m")
	v.SetDefault("predictions.history_limit", 30)
	v.SetDefault("predictions.model_version", "1.0.0")

	v.SetDefault("auth.admin_api_key", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
}

// Load reads configuration from .env, an optional YAML file, and the environment.
// Environment variables win over the file, the file wins over defaults.
func Load(path string) (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ML.URL = strings.TrimRight(cfg.ML.URL, "/")
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.ML.URL == "" {
		errs = append(errs, errors.New("ML_SERVICE_URL must not be empty"))
	}
	if c.Predictions.TTL <= 0 {
		errs = append(errs, errors.New("predictions.ttl must be positive"))
	}
	if c.Predictions.HistoryLimit <= 0 {
		errs = append(errs, errors.New("predictions.history_limit must be positive"))
	}
	return errors.Join(errs...)
}
