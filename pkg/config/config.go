package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string `validate:"required,numeric"`

	DatabaseDriver string `validate:"oneof=postgres sqlite"`
	DatabaseURL    string `validate:"required_if=DatabaseDriver postgres"`
	SQLitePath     string `validate:"required_if=DatabaseDriver sqlite"`

	SourcePath       string `validate:"required"`
	VocabularyPath   string
	MatchThreshold   float64 `validate:"gte=0,lte=100"`
	MatchScorer      string  `validate:"oneof=indel levenshtein"`
	TimestampLayouts []string
	QueryLimit       int `validate:"gt=0,lte=1000"`

	JWTSecret     string `validate:"required"`
	JWTIssuer     string
	JWTTTLMinutes int `validate:"gt=0"`

	LogLevel  string `validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// Load reads environment variables, optionally from a .env file if present,
// and validates the result.
func Load() (Config, error) {
	cfg := Read()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation.
func Read() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseDriver:   strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       getEnv("SQLITE_PATH", "data/hackathon.db"),
		SourcePath:       getEnv("SOURCE_PATH", "Data/inscritos_hackathon.csv"),
		VocabularyPath:   os.Getenv("VOCABULARY_PATH"),
		MatchThreshold:   getEnvFloat("MATCH_THRESHOLD", 60),
		MatchScorer:      strings.ToLower(getEnv("MATCH_SCORER", "indel")),
		TimestampLayouts: getEnvList("TIMESTAMP_LAYOUTS", ";"),
		QueryLimit:       getEnvInt("QUERY_LIMIT", 100),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:        getEnv("JWT_ISSUER", "hackathon-etl"),
		JWTTTLMinutes:    getEnvInt("JWT_TTL_MINUTES", 60),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
}

// Validate checks struct constraints on an already populated Config.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateExcept is Validate skipping the named fields, for commands that
// never touch them.
func ValidateExcept(cfg Config, fields ...string) error {
	if err := validator.New().StructExcept(cfg, fields...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvList(key, sep string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
