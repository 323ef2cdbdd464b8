package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	Debug          bool

	JWTKey   string
	TokenAge time.Duration

	StoreBackend  string
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AnswerWindow is the server-side limit on how late a submission may
	// arrive after a question opens. Zero disables the check and leaves
	// the countdown purely cosmetic, as the clients already render one.
	AnswerWindow time.Duration
}

func Load() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("TOKEN_AGE_HOURS", 24*7)
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ANSWER_WINDOW_SECONDS", 0)

	cfg := Config{
		Port:          v.GetString("PORT"),
		Debug:         v.GetBool("DEBUG"),
		JWTKey:        v.GetString("JWT_KEY"),
		TokenAge:      time.Duration(v.GetInt("TOKEN_AGE_HOURS")) * time.Hour,
		StoreBackend:  v.GetString("STORE_BACKEND"),
		PostgresURL:   v.GetString("POSTGRES_URL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		AnswerWindow:  time.Duration(v.GetInt("ANSWER_WINDOW_SECONDS")) * time.Second,
	}

	origins := v.GetString("ALLOWED_ORIGINS")
	if origins == "" {
		return Config{}, errors.New("missing allowed origins")
	}
	cfg.AllowedOrigins = strings.Split(origins, ",")

	if cfg.JWTKey == "" {
		return Config{}, errors.New("missing jwt signing key")
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendRedis:
	case BackendPostgres:
		if cfg.PostgresURL == "" {
			return Config{}, errors.New("missing postgres url")
		}
	default:
		return Config{}, errors.New("unknown store backend: " + cfg.StoreBackend)
	}

	return cfg, nil
}
