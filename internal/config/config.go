package config

import (
	"os"
	"strconv"

	"taskflow/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	// Per-user limit for mutating task routes
	MutationRateLimit  int
	MutationRateWindow int
}

// Load reads configuration from the environment (.env is honored if present).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	mutationLimit := 120
	if v := os.Getenv("MUTATION_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			mutationLimit = n
		}
	}

	mutationWindow := 60
	if v := os.Getenv("MUTATION_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			mutationWindow = n
		}
	}

	return &Config{
		AppPort:            port,
		DatabaseURL:        dbURL,
		JWTSecret:          jwtSecret,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogJSON:            os.Getenv("LOG_JSON") == "true",
		MutationRateLimit:  mutationLimit,
		MutationRateWindow: mutationWindow,
	}
}
