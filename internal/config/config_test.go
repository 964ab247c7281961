package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LINKMEMO_FILE", "LINKMEMO_LABELS_FILE", "LINKMEMO_REDIS_ADDR",
		"LINKMEMO_RELOAD_INTERVAL", "LINKMEMO_WATCH_FILE", "LINKMEMO_CAPTURE_TTL",
		"LINKMEMO_ALLOWED_HOSTS", "LINKMEMO_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.MemoFile != "./link-memos.md" {
		t.Errorf("MemoFile = %q, want ./link-memos.md", cfg.MemoFile)
	}
	if cfg.LabelsFile != "" {
		t.Errorf("LabelsFile = %q, want empty", cfg.LabelsFile)
	}
	if cfg.RedisEnabled() {
		t.Error("Redis must be disabled without LINKMEMO_REDIS_ADDR")
	}
	if cfg.ReloadInterval != 5*time.Minute {
		t.Errorf("ReloadInterval = %v, want 5m", cfg.ReloadInterval)
	}
	if !cfg.WatchFile {
		t.Error("WatchFile should default to true")
	}
	if cfg.CaptureTTL != 10*time.Minute {
		t.Errorf("CaptureTTL = %v, want 10m", cfg.CaptureTTL)
	}
	if cfg.AllowedHosts != nil {
		t.Errorf("AllowedHosts = %v, want nil", cfg.AllowedHosts)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINKMEMO_FILE", "/data/memos.md")
	t.Setenv("LINKMEMO_LABELS_FILE", "/data/labels.yaml")
	t.Setenv("LINKMEMO_REDIS_ADDR", "redis:6379")
	t.Setenv("LINKMEMO_REDIS_PASSWORD", "secret")
	t.Setenv("LINKMEMO_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("LINKMEMO_ALLOWED_HOSTS", "memo.home.lan, 'localhost:8080'")
	t.Setenv("LINKMEMO_ALLOWED_CIDRS", "10.0.0.0/8,  192.168.1.0/24")
	t.Setenv("LINKMEMO_RELOAD_INTERVAL", "0s")

	cfg := Load()

	if cfg.MemoFile != "/data/memos.md" || cfg.LabelsFile != "/data/labels.yaml" {
		t.Errorf("file settings = %q, %q", cfg.MemoFile, cfg.LabelsFile)
	}
	if !cfg.RedisEnabled() {
		t.Error("Redis should be enabled")
	}
	if want := []string{"memo.home.lan", "localhost:8080"}; !reflect.DeepEqual(cfg.AllowedHosts, want) {
		t.Errorf("AllowedHosts = %v, want %v", cfg.AllowedHosts, want)
	}
	if want := []string{"10.0.0.0/8", "192.168.1.0/24"}; !reflect.DeepEqual(cfg.AllowedCIDRS, want) {
		t.Errorf("AllowedCIDRS = %v, want %v", cfg.AllowedCIDRS, want)
	}
	if cfg.ReloadInterval != 0 {
		t.Errorf("ReloadInterval = %v, want 0", cfg.ReloadInterval)
	}
}

func TestLoadPanicsOnMissingRedisPassword(t *testing.T) {
	t.Setenv("LINKMEMO_REDIS_ADDR", "redis:6379")
	t.Setenv("LINKMEMO_REDIS_PASSWORD", "")
	t.Setenv("LINKMEMO_REDIS_PASSWORD_REQUIRED", "true")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Load() should have panicked")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "LINKMEMO_REDIS_PASSWORD") {
			t.Errorf("panic message = %v", r)
		}
	}()

	Load()
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			MemoFile:      "memos.md",
			CaptureTTL:    time.Minute,
			CaptureBurst:  1,
			CapturePerMin: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"blank file", func(c *Config) { c.MemoFile = "  " }, true},
		{"negative reload interval", func(c *Config) { c.ReloadInterval = -time.Second }, true},
		{"zero capture ttl", func(c *Config) { c.CaptureTTL = 0 }, true},
		{"zero burst", func(c *Config) { c.CaptureBurst = 0 }, true},
		{"password required without redis", func(c *Config) { c.RedisPasswordRequired = true }, false},
		{"password required with redis", func(c *Config) {
			c.RedisAddr = "redis:6379"
			c.RedisPasswordRequired = true
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{"valid duration", "5s", time.Second, 5 * time.Second},
		{"invalid duration uses default", "invalid", 10 * time.Second, 10 * time.Second},
		{"missing variable uses default", "", 15 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"true value", "true", false, true},
		{"false value", "false", true, false},
		{"invalid value uses default", "invalid", true, true},
		{"missing variable uses default", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{` a , "b" ,, 'c' `, []string{"a", "b", "c"}},
		{" , ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := splitAndTrim(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitAndTrim(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadDocumentIgnoresServerSettings(t *testing.T) {
	t.Setenv("LINKMEMO_FILE", "/data/memos.md")
	t.Setenv("LINKMEMO_LABELS_FILE", "/data/labels.yaml")
	t.Setenv("LINKMEMO_CAPTURE_TTL", "0s")

	cfg := LoadDocument()

	if cfg.MemoFile != "/data/memos.md" || cfg.LabelsFile != "/data/labels.yaml" {
		t.Errorf("LoadDocument() = %+v", cfg)
	}
	if err := cfg.ValidateDocument(); err != nil {
		t.Errorf("ValidateDocument() error = %v", err)
	}
}

func TestValidateDocumentRejectsBlankFile(t *testing.T) {
	t.Setenv("LINKMEMO_FILE", "  ")

	err := LoadDocument().ValidateDocument()
	if err == nil || !strings.Contains(err.Error(), "LINKMEMO_FILE") {
		t.Errorf("ValidateDocument() error = %v, want LINKMEMO_FILE error", err)
	}
}
