package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"trotropay/internal/types"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type Config struct {
	HTTPAddr    string
	StoreDriver string
	DB          Database
	RedisAddr   string

	JWTSecret string
	JWTTTL    time.Duration

	LogFile  string
	LogLevel string

	CORSOrigins []string

	MaxGroupSize             int
	PassengerStartingBalance types.Money
	SeedDemoData             bool
}

// Load reads .env when present and then the environment, falling back to
// defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}

	cfg := Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		DB: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "trotropay"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		JWTSecret:    getEnv("JWT_SECRET", "supersecret"),
		JWTTTL:       time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		LogFile:      getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "")),
		MaxGroupSize: getEnvInt("MAX_GROUP_SIZE", 10),
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", false),
	}

	balance, err := types.ParseMoney(getEnv("PASSENGER_STARTING_BALANCE", "0.00"))
	if err != nil || balance.IsNegative() {
		logrus.WithField("value", os.Getenv("PASSENGER_STARTING_BALANCE")).Warn("Invalid PASSENGER_STARTING_BALANCE, using 0.00")
		balance = types.Zero
	}
	cfg.PassengerStartingBalance = balance

	if cfg.StoreDriver == StoreMemory {
		cfg.SeedDemoData = true
	}
	if cfg.JWTSecret == "supersecret" {
		logrus.Warn("JWT_SECRET not set, using the development fallback")
	}
	return cfg
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using %d", v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
