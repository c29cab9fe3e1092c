package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port           string
	UseMemoryStore bool
	JWTSecret      string

	DBUser                 string
	DBPass                 string
	DBName                 string
	InstanceConnectionName string

	// Budgets for the whole-dataset fetch behind chart aggregation.
	AggMaxRecords int
	AggTimeout    time.Duration
}

// Load reads .env (best effort) and the environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			logrus.Info("no .env file found, using environment variables")
		}
	}

	return Config{
		Port:                   envOr("PORT", "8080"),
		UseMemoryStore:         os.Getenv("USE_MEMORY_STORE") == "true",
		JWTSecret:              os.Getenv("JWT_SECRET"),
		DBUser:                 envOr("DB_USER", "postgres"),
		DBPass:                 os.Getenv("DB_PASS"),
		DBName:                 envOr("DB_NAME", "haulhub"),
		InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		AggMaxRecords:          envIntOr("AGG_MAX_RECORDS", 10000),
		AggTimeout:             time.Duration(envIntOr("AGG_TIMEOUT_MS", 5000)) * time.Millisecond,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("ignoring non-numeric value %q", v)
		return fallback
	}
	return n
}
