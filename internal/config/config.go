package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WarmupScope pairs a vendor id with the backend token the warmup worker
// uses to fetch that vendor's own data.
type WarmupScope struct {
	UserID string
	Token  string
}

type Config struct {
	GatewayAddr    string
	BackendBaseURL string
	BackendTimeout time.Duration
	RedisAddr      string
	JWTSecret      string
	SessionTTL     time.Duration
	SnapshotTTL    time.Duration
	WarmupCron     string
	WarmupPeriods  []string
	WarmupScopes   []WarmupScope
	LogFormat      string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getlist(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// getscopes parses comma-separated user:token pairs. Tokens are JWTs, which
// never contain colons, so SplitN on the first colon is unambiguous.
func getscopes(k string) []WarmupScope {
	var out []WarmupScope
	for _, part := range getlist(k, nil) {
		uid, tok, ok := strings.Cut(part, ":")
		if !ok || uid == "" || tok == "" {
			continue
		}
		out = append(out, WarmupScope{UserID: uid, Token: tok})
	}
	return out
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	return Config{
		GatewayAddr:    getenv("GATEWAY_ADDR", ":8080"),
		BackendBaseURL: getenv("BACKEND_BASE_URL", "http://backend:8000"),
		BackendTimeout: getdur("BACKEND_TIMEOUT", 5*time.Second),
		RedisAddr:      getenv("REDIS_ADDR", "127.0.0.1:6379"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		SessionTTL:     getdur("SESSION_TTL", 24*time.Hour),
		SnapshotTTL:    getdur("SNAPSHOT_TTL", 5*time.Minute),
		WarmupCron:     getenv("WARMUP_CRON", "@every 5m"),
		WarmupPeriods:  getlist("WARMUP_PERIODS", []string{"week", "month", "year"}),
		WarmupScopes:   getscopes("WARMUP_SCOPES"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}
}
