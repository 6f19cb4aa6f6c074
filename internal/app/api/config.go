package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	userapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/application"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	SessionTTL  time.Duration
	StaticDir   string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envDefault("PORT", "3000"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SessionTTL:  userapp.DefaultSessionTTL,
		StaticDir:   envDefault("STATIC_DIR", "public"),
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
