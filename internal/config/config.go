package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// AuthPassword protects writes. Empty means the instance is open.
	AuthPassword string

	// SeedFile optionally points at a YAML starter collection used when
	// the store is empty.
	SeedFile string

	FaviconTTL time.Duration // retention of cached favicons

	BackupEnabled   bool
	BackupInterval  time.Duration // ex: 24h
	BackupRetention time.Duration // TTL of each backup snapshot

	// Redis. Empty RedisAddr runs the service on the in-memory store,
	// which loses data on restart.
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt

	TrustProxy bool // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CLOUDNAV_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CLOUDNAV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CLOUDNAV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CLOUDNAV_PRETTY_LOG", true),

		// Data
		AuthPassword: getenv("CLOUDNAV_AUTH_PASSWORD", ""),
		SeedFile:     getenv("CLOUDNAV_SEED_FILE", ""),
		FaviconTTL:   mustDuration("CLOUDNAV_FAVICON_TTL", 7*24*time.Hour),

		// Backups
		BackupEnabled:   mustBool("CLOUDNAV_BACKUP_ENABLED", true),
		BackupInterval:  mustDuration("CLOUDNAV_BACKUP_INTERVAL", 24*time.Hour),
		BackupRetention: mustDuration("CLOUDNAV_BACKUP_RETENTION", 7*24*time.Hour),

		// Redis settings
		RedisAddr:           getenv("CLOUDNAV_REDIS_ADDR", ""),
		RedisUser:           getenv("CLOUDNAV_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("CLOUDNAV_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("CLOUDNAV_REDIS_DB", 0),
		RedisDT:             mustDuration("CLOUDNAV_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("CLOUDNAV_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("CLOUDNAV_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("CLOUDNAV_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("CLOUDNAV_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("CLOUDNAV_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("CLOUDNAV_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("CLOUDNAV_REDIS_PING_TIMEOUT", 5*time.Second),

		TrustProxy: mustBool("CLOUDNAV_TRUST_PROXY", false),
	}

	// Log config only in debug mode with redacted sensitive fields.
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfgCopy.AuthPassword != "" {
			cfgCopy.AuthPassword = "***REDACTED***"
		}
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
