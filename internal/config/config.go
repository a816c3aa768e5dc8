package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// Auth token settings. The secret is loaded once here and handed to the
	// token manager explicitly, never read as ambient state.
	AuthSecret      string
	TokenTTLMinutes int

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SummaryCacheTTLSecs int

	CORSOrigins []string

	OTelEnabled  bool
	OTLPEndpoint string
}

func Load() Config {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:  env,
		Port: port,

		DBURL: dbURL,

		AuthSecret:      getEnv("AUTH_SECRET", "dev-only-secret"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),

		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		SummaryCacheTTLSecs: getEnvInt("SUMMARY_CACHE_TTL_SECONDS", 30),

		CORSOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},

		OTelEnabled:  getEnv("OTEL_ENABLED", "") == "true",
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "moneyapp")
	pass := getEnv("DB_PASSWORD", "moneyapp")
	name := getEnv("DB_NAME", "moneyapp")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c Config) SummaryCacheTTL() time.Duration {
	return time.Duration(c.SummaryCacheTTLSecs) * time.Second
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
		}

		return num
	}
	return fallback
}
