package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/siteboard/internal/kv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline on the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Store
	StoreBackend string // kv.BackendRedis | kv.BackendBadger | kv.BackendMemory
	KeyPrefix    string // prepended to every namespace, ex: "siteboard"
	BadgerDir    string // empty => in-memory badger

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Admin
	AdminUsername string
	AdminPassword string
	TokenTTL      time.Duration // recorded as admin_token_expiry, not enforced

	SeedFile          string        // optional YAML seed of admin sites
	ReconcileInterval time.Duration // 0 => no periodic reconciliation

	SubmitRateBurst  int // token bucket size for public writes
	SubmitRatePerMin int // refill rate for public writes

	AllowedHosts []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS []string // optional, restrict operational routes to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SITEBOARD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SITEBOARD_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("SITEBOARD_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("SITEBOARD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SITEBOARD_PRETTY_LOG", true),

		// Store
		StoreBackend: strings.ToLower(getenv("SITEBOARD_STORE_BACKEND", kv.BackendRedis)),
		KeyPrefix:    getenv("SITEBOARD_KEY_PREFIX", "siteboard"),
		BadgerDir:    getenv("SITEBOARD_BADGER_DIR", ""),

		// Redis settings
		RedisUser:             getenv("SITEBOARD_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SITEBOARD_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("SITEBOARD_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SITEBOARD_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Admin
		AdminUsername: getenv("SITEBOARD_ADMIN_USERNAME", "admin"),
		AdminPassword: requireEnv("SITEBOARD_ADMIN_PASSWORD"),
		TokenTTL:      mustDuration("SITEBOARD_TOKEN_TTL", 24*time.Hour),

		SeedFile:          getenv("SITEBOARD_SEED_FILE", ""),
		ReconcileInterval: mustDuration("SITEBOARD_RECONCILE_INTERVAL", 0),

		SubmitRateBurst:  getenvInt("SITEBOARD_SUBMIT_RATE_BURST", 5),
		SubmitRatePerMin: getenvInt("SITEBOARD_SUBMIT_RATE_PER_MIN", 10),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SITEBOARD_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("SITEBOARD_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SITEBOARD_TRUST_PROXY", true),
	}

	switch cfg.StoreBackend {
	case kv.BackendRedis:
		cfg.RedisAddr = requireEnv("SITEBOARD_REDIS_ADDR")
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: SITEBOARD_REDIS_PASSWORD is required when SITEBOARD_REDIS_PASSWORD_REQUIRED=true")
		}
	case kv.BackendBadger, kv.BackendMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown SITEBOARD_STORE_BACKEND %q (want redis, badger or memory)", cfg.StoreBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.AdminPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
