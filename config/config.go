package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the API reads from the environment.
type Config struct {
	ServerPort  string
	GinMode     string
	Environment string
	DebugSQL    bool

	DBDriver    string
	DatabaseDSN string
	DBHost      string
	DBPort      string
	DBDatabase  string
	DBUsername  string
	DBPassword  string

	CORSOrigins []string

	LLMProvider string
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string
	LLMTimeout  time.Duration

	RedisURL    string
	StepLockTTL time.Duration

	DefaultUserID string
	RequireUserID bool
}

// Load reads the process environment. Call godotenv.Load first if a .env
// file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    envOr("SERVER_PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		Environment:   strings.ToLower(envOr("ENVIRONMENT", "development")),
		DebugSQL:      strings.EqualFold(os.Getenv("DEBUG_SQL"), "true"),
		DBDriver:      strings.ToLower(envOr("DB_DRIVER", "mysql")),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		DBHost:        envOr("DB_HOST", "127.0.0.1"),
		DBPort:        envOr("DB_PORT", "3306"),
		DBDatabase:    envOr("DB_DATABASE", "recircuit"),
		DBUsername:    os.Getenv("DB_USERNAME"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		CORSOrigins:   splitList(envOr("CORS_ORIGINS", "*")),
		LLMProvider:   strings.ToLower(envOr("LLM_PROVIDER", "openai")),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		LLMModel:      os.Getenv("LLM_MODEL"),
		LLMBaseURL:    os.Getenv("LLM_BASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		DefaultUserID: envOr("DEFAULT_USER_ID", "default_user"),
		RequireUserID: strings.EqualFold(os.Getenv("REQUIRE_USER_ID"), "true"),
	}

	// EMERGENT_LLM_KEY is the name older deployments used.
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("EMERGENT_LLM_KEY")
	}

	var err error
	if cfg.LLMTimeout, err = durationEnv("LLM_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.StepLockTTL, err = durationEnv("STEP_LOCK_TTL", 2*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.LLMProvider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
	switch cfg.DBDriver {
	case "mysql", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// DSN returns DATABASE_DSN when set, otherwise builds a MySQL DSN from the
// DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUsername,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBDatabase,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	// plain integers are seconds
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return time.Duration(secs) * time.Second, nil
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
