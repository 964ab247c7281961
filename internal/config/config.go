package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	MemoFile       string        // path to the Markdown memo document
	LabelsFile     string        // optional YAML with localized labels (empty = built-in labels)
	ReloadInterval time.Duration // periodic reload of the memo file (0 = disabled)
	WatchFile      bool          // reload when the memo file changes on disk
	CaptureTTL     time.Duration // lifetime of a pending capture in Redis

	// Redis (optional, empty address disables the capture hand-off)
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

	AllowedHosts  []string // optional, restrict access to specific Host headers
	AllowedCIDRS  []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy    bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CaptureBurst  int      // captures accepted in a burst per client
	CapturePerMin int      // sustained captures per minute per client
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKMEMO_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKMEMO_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKMEMO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKMEMO_PRETTY_LOG", true),

		// Memo document
		MemoFile:       getenv("LINKMEMO_FILE", "./link-memos.md"),
		LabelsFile:     getenv("LINKMEMO_LABELS_FILE", ""),
		ReloadInterval: mustDuration("LINKMEMO_RELOAD_INTERVAL", 5*time.Minute),
		WatchFile:      mustBool("LINKMEMO_WATCH_FILE", true),
		CaptureTTL:     mustDuration("LINKMEMO_CAPTURE_TTL", 10*time.Minute),

		// Redis settings
		RedisAddr:             getenv("LINKMEMO_REDIS_ADDR", ""),
		RedisUser:             getenv("LINKMEMO_REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("LINKMEMO_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKMEMO_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKMEMO_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:  splitAndTrim(getenv("LINKMEMO_ALLOWED_HOSTS", "")),
		AllowedCIDRS:  parseAllowedIPs(getenv("LINKMEMO_ALLOWED_CIDRS", "")),
		TrustProxy:    mustBool("LINKMEMO_TRUST_PROXY", false),
		CaptureBurst:  getenvInt("LINKMEMO_CAPTURE_BURST", 10),
		CapturePerMin: getenvInt("LINKMEMO_CAPTURE_PER_MIN", 30),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// LoadDocument reads only the memo document settings. Unlike Load it never
// panics; callers check the result with ValidateDocument.
func LoadDocument() *Config {
	return &Config{
		MemoFile:   getenv("LINKMEMO_FILE", "./link-memos.md"),
		LabelsFile: getenv("LINKMEMO_LABELS_FILE", ""),
	}
}

// ValidateDocument checks the memo document settings only.
func (c *Config) ValidateDocument() error {
	if strings.TrimSpace(c.MemoFile) == "" {
		return fmt.Errorf("LINKMEMO_FILE must not be empty")
	}
	return nil
}

// RedisEnabled reports whether the capture hand-off has a Redis to talk to.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	if err := c.ValidateDocument(); err != nil {
		return err
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("LINKMEMO_RELOAD_INTERVAL must be >= 0, got %v", c.ReloadInterval)
	}
	if c.CaptureTTL <= 0 {
		return fmt.Errorf("LINKMEMO_CAPTURE_TTL must be > 0, got %v", c.CaptureTTL)
	}
	if c.CaptureBurst <= 0 || c.CapturePerMin <= 0 {
		return fmt.Errorf("capture rate limit must be positive (burst=%d, per_min=%d)",
			c.CaptureBurst, c.CapturePerMin)
	}
	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("LINKMEMO_REDIS_PASSWORD is required when LINKMEMO_REDIS_PASSWORD_REQUIRED=true")
	}
	return nil
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
