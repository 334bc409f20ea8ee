package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Analysis  AnalysisConfig
	Suno      SunoConfig
	R2        R2Config
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	AnalyzePerMin int
	ScorePerHour  int
}

// AnalysisConfig configures the multimodal script/video analysis API
// (OpenAI-compatible chat completions).
type AnalysisConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SunoConfig configures the music generation API and its polling behavior.
type SunoConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	CallbackURL string

	PollInterval      time.Duration
	PollMaxAttempts   int
	PollErrorBudget   int
	PollGraceAttempts int

	// GenerationTimeout is the wall-clock deadline the worker imposes on one
	// whole analysis+generation flow.
	GenerationTimeout time.Duration
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("ANALYSIS_API_KEY")
	readSecret("SUNO_API_KEY")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("analysis.api_key", "ANALYSIS_API_KEY")
	_ = viper.BindEnv("analysis.base_url", "ANALYSIS_BASE_URL")
	_ = viper.BindEnv("analysis.model", "ANALYSIS_MODEL")
	_ = viper.BindEnv("suno.api_key", "SUNO_API_KEY")
	_ = viper.BindEnv("suno.base_url", "SUNO_BASE_URL")
	_ = viper.BindEnv("suno.model", "SUNO_MODEL")
	_ = viper.BindEnv("suno.callback_url", "SUNO_CALLBACK_URL")
	_ = viper.BindEnv("suno.poll_interval_seconds", "SUNO_POLL_INTERVAL_SECONDS")
	_ = viper.BindEnv("suno.poll_max_attempts", "SUNO_POLL_MAX_ATTEMPTS")
	_ = viper.BindEnv("suno.poll_error_budget", "SUNO_POLL_ERROR_BUDGET")
	_ = viper.BindEnv("suno.poll_grace_attempts", "SUNO_POLL_GRACE_ATTEMPTS")
	_ = viper.BindEnv("suno.generation_timeout_seconds", "SUNO_GENERATION_TIMEOUT_SECONDS")
	_ = viper.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = viper.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = viper.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = viper.BindEnv("r2.public_url", "R2_PUBLIC_URL")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.analyze_per_min", 20)
	viper.SetDefault("ratelimit.score_per_hour", 5)

	// Analysis defaults
	viper.SetDefault("analysis.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("analysis.model", "llama-3.2-90b-vision-preview")

	// Suno defaults
	viper.SetDefault("suno.base_url", "https://api.sunoapi.org")
	viper.SetDefault("suno.model", "V4")
	viper.SetDefault("suno.callback_url", "https://example.com/callback")
	viper.SetDefault("suno.poll_interval_seconds", 5)
	viper.SetDefault("suno.poll_max_attempts", 60)
	viper.SetDefault("suno.poll_error_budget", 5)
	viper.SetDefault("suno.poll_grace_attempts", 3)
	viper.SetDefault("suno.generation_timeout_seconds", 600)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			AnalyzePerMin: viper.GetInt("ratelimit.analyze_per_min"),
			ScorePerHour:  viper.GetInt("ratelimit.score_per_hour"),
		},
		Analysis: AnalysisConfig{
			APIKey:  viper.GetString("analysis.api_key"),
			BaseURL: viper.GetString("analysis.base_url"),
			Model:   viper.GetString("analysis.model"),
		},
		Suno: SunoConfig{
			APIKey:            viper.GetString("suno.api_key"),
			BaseURL:           viper.GetString("suno.base_url"),
			Model:             viper.GetString("suno.model"),
			CallbackURL:       viper.GetString("suno.callback_url"),
			PollInterval:      time.Duration(viper.GetInt("suno.poll_interval_seconds")) * time.Second,
			PollMaxAttempts:   viper.GetInt("suno.poll_max_attempts"),
			PollErrorBudget:   viper.GetInt("suno.poll_error_budget"),
			PollGraceAttempts: viper.GetInt("suno.poll_grace_attempts"),
			GenerationTimeout: time.Duration(viper.GetInt("suno.generation_timeout_seconds")) * time.Second,
		},
		R2: R2Config{
			AccountID:       viper.GetString("r2.account_id"),
			AccessKeyID:     viper.GetString("r2.access_key_id"),
			SecretAccessKey: viper.GetString("r2.secret_access_key"),
			BucketName:      viper.GetString("r2.bucket_name"),
			PublicURL:       viper.GetString("r2.public_url"),
		},
	}

	return cfg, nil
}
