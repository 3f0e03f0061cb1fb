// Package config loads the service configuration from a YAML file with
// sensible defaults for every field, so a missing file is fully usable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openlearn/compass/internal/embed"
	"github.com/openlearn/compass/internal/feature"
	"github.com/openlearn/compass/internal/vectorindex"
)

// Config is the top-level service configuration.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	LogLevel string         `yaml:"log_level"`
	Features FeatureConfig  `yaml:"features"`
	Index    IndexConfig    `yaml:"index"`
	Cache    CacheConfig    `yaml:"cache"`
	Embedder EmbedderConfig `yaml:"embedder"`
}

// FeatureConfig tunes the content-based feature pipeline.
type FeatureConfig struct {
	TargetDim int `yaml:"target_dim"`
	MaxVocab  int `yaml:"max_vocab"`
}

// IndexConfig tunes the vector index.
type IndexConfig struct {
	Dimension      int     `yaml:"dimension"`
	TrainThreshold int     `yaml:"train_threshold"`
	HNSWM          int     `yaml:"hnsw_m"`
	HNSWEfSearch   int     `yaml:"hnsw_ef_search"`
	HNSWMl         float64 `yaml:"hnsw_ml"`
}

// CacheConfig selects the recommendation cache backend. An empty Redis
// address selects the in-process cache.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// EmbedderConfig selects the embedding backend. Provider "hash" needs no
// credentials; "openai" talks to an OpenAI-compatible endpoint.
type EmbedderConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:  ".compass",
		LogLevel: "info",
		Features: FeatureConfig{
			TargetDim: feature.DefaultTargetDim,
			MaxVocab:  feature.DefaultMaxVocab,
		},
		Index: IndexConfig{
			Dimension:      embed.DefaultDimension,
			TrainThreshold: vectorindex.DefaultTrainThreshold,
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		Embedder: EmbedderConfig{
			Provider:   "hash",
			Dimensions: embed.DefaultDimension,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing path (or
// empty string) returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values left by a partial file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Features.TargetDim <= 0 {
		c.Features.TargetDim = d.Features.TargetDim
	}
	if c.Features.MaxVocab <= 0 {
		c.Features.MaxVocab = d.Features.MaxVocab
	}
	if c.Index.Dimension <= 0 {
		c.Index.Dimension = d.Index.Dimension
	}
	if c.Index.TrainThreshold <= 0 {
		c.Index.TrainThreshold = d.Index.TrainThreshold
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = d.Cache.TTL
	}
	if c.Embedder.Provider == "" {
		c.Embedder.Provider = d.Embedder.Provider
	}
	if c.Embedder.Dimensions <= 0 {
		c.Embedder.Dimensions = d.Embedder.Dimensions
	}
}
