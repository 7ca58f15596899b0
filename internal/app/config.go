package app

import (
	"strings"

	"github.com/lumawake/lumawake-backend/internal/platform/envutil"
)

type Config struct {
	Addr            string
	LogMode         string
	Environment     string
	Version         string
	JWTSecretKey    string
	CORSOrigins     []string
	CatalogOverride string
	RedisEnabled    bool
	Workers         int
}

func LoadConfig() Config {
	cfg := Config{
		Addr:            envutil.Str("HTTP_ADDR", ":8080"),
		LogMode:         envutil.Str("LOG_MODE", "development"),
		Environment:     envutil.Str("ENVIRONMENT", "development"),
		Version:         envutil.Str("SERVICE_VERSION", "dev"),
		JWTSecretKey:    envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		CatalogOverride: envutil.Str("CATALOG_OVERRIDES_PATH", ""),
		RedisEnabled:    envutil.Bool("REDIS_ENABLED", false),
		Workers:         envutil.Int("JOB_WORKERS", 2),
	}
	if raw := envutil.Str("CORS_ORIGINS", ""); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
	return cfg
}
