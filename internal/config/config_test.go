package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Features.TargetDim != 20 {
		t.Errorf("target_dim = %d, want 20", cfg.Features.TargetDim)
	}
	if cfg.Index.Dimension != 384 {
		t.Errorf("index dimension = %d, want 384", cfg.Index.Dimension)
	}
	if cfg.Embedder.Provider != "hash" {
		t.Errorf("embedder provider = %q, want hash", cfg.Embedder.Provider)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.Cache.TTL)
	}
}

func TestLoad_PartialFileBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compass.yaml")
	content := `
log_level: debug
index:
  dimension: 128
cache:
  redis_addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Index.Dimension != 128 {
		t.Errorf("index dimension = %d, want 128", cfg.Index.Dimension)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("redis_addr = %q", cfg.Cache.RedisAddr)
	}
	// Untouched fields keep defaults.
	if cfg.Features.MaxVocab != 1000 {
		t.Errorf("max_vocab = %d, want 1000", cfg.Features.MaxVocab)
	}
	if cfg.Index.TrainThreshold != 256 {
		t.Errorf("train_threshold = %d, want 256", cfg.Index.TrainThreshold)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("log_level: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
