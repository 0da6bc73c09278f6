package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarawak-explorer/itinerary/internal/log"
)

// Environment overrides, applied after the config file.
const (
	EnvBackend   = "ITINERARY_BACKEND"
	EnvRedisAddr = "ITINERARY_REDIS_ADDR"
	EnvMongoURI  = "ITINERARY_MONGO_URI"
	EnvJWTSecret = "ITINERARY_JWT_SECRET"
	EnvListen    = "ITINERARY_LISTEN"
	EnvLogLevel  = "ITINERARY_LOG_LEVEL"
	EnvRateLimit = "ITINERARY_RATE_PER_SECOND"
)

// LoadDotEnv loads variables from .env in the working directory and from
// the root's .env, if present. Variables already set in the process win.
func LoadDotEnv(p *Paths) {
	for _, file := range []string{".env", p.Env} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			log.Error("failed to load env file", err, "file", file)
		}
	}
}

// ApplyEnv overrides cfg with the ITINERARY_* variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Storage.Mongo.URI = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.Server.RatePerSecond = rate
		} else {
			log.Error("ignoring invalid rate limit", err, "value", v)
		}
	}
	c.Normalize()
}
