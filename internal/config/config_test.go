package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Qdrant: QdrantConfig{
			Host:       "cluster.qdrant.io",
			APIKey:     "qd-key",
			Collection: "wayuu_docs",
		},
		Generation: GenerationConfig{APIKey: "gen-key"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no qdrant host", func(c *Config) { c.Qdrant.Host = "" }},
		{"no qdrant api key", func(c *Config) { c.Qdrant.APIKey = "" }},
		{"no collection", func(c *Config) { c.Qdrant.Collection = "" }},
		{"no generation api key", func(c *Config) { c.Generation.APIKey = "" }},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Qdrant.Dimensions != 384 {
		t.Errorf("expected default dimensions 384, got %d", cfg.Qdrant.Dimensions)
	}
	if cfg.Qdrant.Port != 6334 {
		t.Errorf("expected default qdrant port 6334, got %d", cfg.Qdrant.Port)
	}
	if cfg.Pipeline.DefaultLimit != 5 || cfg.Pipeline.MaxLimit != 10 {
		t.Errorf("unexpected pipeline limits: %d/%d", cfg.Pipeline.DefaultLimit, cfg.Pipeline.MaxLimit)
	}
	if cfg.Pipeline.ContextResults != 5 {
		t.Errorf("expected 5 context results, got %d", cfg.Pipeline.ContextResults)
	}
	if cfg.Embedding.APIKey != "gen-key" {
		t.Errorf("embedding key should fall back to generation key, got %q", cfg.Embedding.APIKey)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("WAYUU_TEST_KEY", "secret")

	in := []byte("api_key: ${WAYUU_TEST_KEY}\nhost: ${WAYUU_TEST_MISSING:-localhost}")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nhost: localhost"
	if out != want {
		t.Errorf("expansion mismatch:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	yaml := `
http:
  port: 9090
qdrant:
  host: ${WAYUU_QDRANT_HOST:-q.example.com}
  api_key: qd-key
  collection: wayuu_docs
generation:
  api_key: gen-key
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Qdrant.Host != "q.example.com" {
		t.Errorf("expected default-expanded host, got %q", cfg.Qdrant.Host)
	}
}
