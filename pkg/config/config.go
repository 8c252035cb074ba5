package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the top-level configuration for the scheduler gateway.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log       LogConfig
	Redis     RedisConfig
	Generator GeneratorConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// GeneratorConfig supplies defaults for a generation request that omits
// its own options, and the proposal cache's entry lifetime.
type GeneratorConfig struct {
	NumOptions          int
	NumAttempts         int
	TimeoutPerAttemptMs int
	ProposalTTL         time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS_PROPOSAL_CACHE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Generator = GeneratorConfig{
		NumOptions:          v.GetInt("GENERATOR_NUM_OPTIONS"),
		NumAttempts:         v.GetInt("GENERATOR_NUM_ATTEMPTS"),
		TimeoutPerAttemptMs: v.GetInt("GENERATOR_TIMEOUT_PER_ATTEMPT_MS"),
		ProposalTTL:         parseDuration(v.GetString("GENERATOR_PROPOSAL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/v1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_REDIS_PROPOSAL_CACHE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("GENERATOR_NUM_OPTIONS", 3)
	v.SetDefault("GENERATOR_NUM_ATTEMPTS", 50)
	v.SetDefault("GENERATOR_TIMEOUT_PER_ATTEMPT_MS", 5000)
	v.SetDefault("GENERATOR_PROPOSAL_TTL", "30m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
