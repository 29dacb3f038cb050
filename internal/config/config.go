package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBPath           string
	ServerPort       string
	QuestionsPerPage int
	SeedFile         string
	CORSOrigins      []string
	GinMode          string
	LogLevel         string
	ShutdownTimeout  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	return &Config{
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "trivia"),
		DBPath:           getEnv("DB_PATH", "trivia.db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		QuestionsPerPage: getEnvInt("QUESTIONS_PER_PAGE", 10),
		SeedFile:         getEnv("SEED_FILE", ""),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		GinMode:          ginMode(getEnv("GIN_MODE", "debug")),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ginMode keeps GIN_MODE to the values gin.SetMode accepts.
func ginMode(raw string) string {
	switch m := strings.ToLower(strings.TrimSpace(raw)); m {
	case "debug", "release", "test":
		return m
	default:
		log.Printf("config: unknown GIN_MODE %q, using debug", raw)
		return "debug"
	}
}
