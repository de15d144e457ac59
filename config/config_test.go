package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "zero start page",
			mutate: func(cfg *Config) {
				cfg.StartPage = 0
			},
			wantErr: "start page",
		},
		{
			name: "negative max pages",
			mutate: func(cfg *Config) {
				cfg.MaxPages = -1
			},
			wantErr: "max pages",
		},
		{
			name: "negative page delay",
			mutate: func(cfg *Config) {
				cfg.PageDelay = -time.Second
			},
			wantErr: "page delay",
		},
		{
			name: "negative detail delay",
			mutate: func(cfg *Config) {
				cfg.DetailDelay = -time.Second
			},
			wantErr: "detail delay",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "negative parallelism",
			mutate: func(cfg *Config) {
				cfg.Parallelism = -1
			},
			wantErr: "parallelism",
		},
		{
			name: "zero batch size",
			mutate: func(cfg *Config) {
				cfg.BatchSize = 0
			},
			wantErr: "batch size",
		},
		{
			name: "bad output format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("SCRAPER_TEST_INT", "42")
	value, ok, err := EnvInt("SCRAPER_TEST_INT")
	if err != nil || !ok || value != 42 {
		t.Fatalf("EnvInt = (%d, %v, %v), want (42, true, nil)", value, ok, err)
	}

	t.Setenv("SCRAPER_TEST_INT", "nope")
	if _, _, err := EnvInt("SCRAPER_TEST_INT"); err == nil {
		t.Fatalf("expected error for non-integer value")
	}

	if _, ok, _ := EnvInt("SCRAPER_TEST_INT_MISSING"); ok {
		t.Fatalf("missing variable should not report ok")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("SCRAPER_TEST_BOOL", "true")
	value, ok, err := EnvBool("SCRAPER_TEST_BOOL")
	if err != nil || !ok || !value {
		t.Fatalf("EnvBool = (%v, %v, %v), want (true, true, nil)", value, ok, err)
	}

	t.Setenv("SCRAPER_TEST_BOOL", "maybe")
	if _, _, err := EnvBool("SCRAPER_TEST_BOOL"); err == nil {
		t.Fatalf("expected error for non-boolean value")
	}
}
