package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration
	PageSize      int
	PostgresDSN   string
	Redis         RedisConfig
}

// RedisConfig holds connection settings for the entry cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// EntryCacheTTL bounds how long a stale entry can be served after a delete,
// since deletes do not invalidate the cache.
var EntryCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TIMECLOCK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")

	tokenTTL := 7 * 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			tokenTTL = time.Duration(secs) * time.Second
		}
	}

	pageSize := 25
	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = n
		}
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      tokenTTL,
		PageSize:      pageSize,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}
