package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recorder.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
instance:
  id: recorder-1

api:
  api_key: ${TEST_SF_API_KEY}
  account: EXB123456
  venue: TESTEX
  stocks:
    - FOOBAR
    - BAZQUX

database:
  postgres:
    host: localhost
    name: stockfighter
    user: recorder
    password: secret
`

func TestLoadAndValidate(t *testing.T) {
	t.Setenv("TEST_SF_API_KEY", "key-from-env")
	path := writeConfig(t, validConfig)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Instance.ID != "recorder-1" {
		t.Errorf("instance id = %q", cfg.Instance.ID)
	}
	if cfg.API.APIKey != "key-from-env" {
		t.Errorf("api key = %q, env expansion failed", cfg.API.APIKey)
	}
	if cfg.API.Venue != "TESTEX" || len(cfg.API.Stocks) != 2 {
		t.Errorf("api = %+v", cfg.API)
	}

	// Omitted fields pick up defaults.
	if cfg.API.RestURL != DefaultRestURL {
		t.Errorf("rest url = %q, want default", cfg.API.RestURL)
	}
	if cfg.API.WSURL != DefaultWSURL {
		t.Errorf("ws url = %q, want default", cfg.API.WSURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("timeout = %v, want default", cfg.API.Timeout)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("db port = %d, want default", cfg.Database.Postgres.Port)
	}
	if cfg.Database.Postgres.SSLMode != DefaultDBSSLMode {
		t.Errorf("ssl mode = %q, want default", cfg.Database.Postgres.SSLMode)
	}
	if cfg.Writers.BatchSize != DefaultBatchSize || cfg.Writers.FlushInterval != DefaultFlushInterval {
		t.Errorf("writers = %+v, want defaults", cfg.Writers)
	}
	if cfg.Poller.Interval != DefaultPollInterval || cfg.Poller.Concurrency != DefaultPollConcurrency {
		t.Errorf("poller = %+v, want defaults", cfg.Poller)
	}
	if cfg.Stream.ReconnectBaseWait != DefaultReconnectBaseWait {
		t.Errorf("stream = %+v, want defaults", cfg.Stream)
	}
}

func TestLoad_ExplicitValuesSurviveDefaults(t *testing.T) {
	path := writeConfig(t, validConfig+`
writers:
  batch_size: 50
  flush_interval: 250ms

poller:
  interval: 5s
  concurrency: 2
`)
	t.Setenv("TEST_SF_API_KEY", "k")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Writers.BatchSize != 50 {
		t.Errorf("batch size = %d, want 50", cfg.Writers.BatchSize)
	}
	if cfg.Writers.FlushInterval != 250*time.Millisecond {
		t.Errorf("flush interval = %v", cfg.Writers.FlushInterval)
	}
	if cfg.Poller.Interval != 5*time.Second || cfg.Poller.Concurrency != 2 {
		t.Errorf("poller = %+v", cfg.Poller)
	}
	// Unset writer fields still default.
	if cfg.Writers.BufferSize != DefaultBufferSize {
		t.Errorf("buffer size = %d, want default", cfg.Writers.BufferSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "instance: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	base := func() *RecorderConfig {
		cfg := &RecorderConfig{
			Instance: InstanceConfig{ID: "r1"},
			API: APIConfig{
				APIKey:  "k",
				Account: "EXB123456",
				Venue:   "TESTEX",
				Stocks:  []string{"FOOBAR"},
			},
			Database: DatabaseConfig{Postgres: DBConfig{
				Host: "localhost", Name: "sf", User: "u", Password: "p",
			}},
		}
		cfg.applyDefaults()
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*RecorderConfig)
		wantSub string
	}{
		{"missing instance id", func(c *RecorderConfig) { c.Instance.ID = "" }, "instance.id"},
		{"missing api key", func(c *RecorderConfig) { c.API.APIKey = "" }, "api.api_key"},
		{"missing account", func(c *RecorderConfig) { c.API.Account = "" }, "api.account"},
		{"missing venue", func(c *RecorderConfig) { c.API.Venue = "" }, "api.venue"},
		{"no stocks", func(c *RecorderConfig) { c.API.Stocks = nil }, "api.stocks"},
		{"missing db host", func(c *RecorderConfig) { c.Database.Postgres.Host = "" }, "database.postgres.host"},
		{"missing db password", func(c *RecorderConfig) { c.Database.Postgres.Password = "" }, "database.postgres.password"},
		{"min conns over max", func(c *RecorderConfig) { c.Database.Postgres.MinConns = 99 }, "min_conns"},
		{"zero batch size", func(c *RecorderConfig) { c.Writers.BatchSize = -1 }, "writers.batch_size"},
		{"zero concurrency", func(c *RecorderConfig) { c.Poller.Concurrency = -1 }, "poller.concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantSub)
			}
		})
	}
}
