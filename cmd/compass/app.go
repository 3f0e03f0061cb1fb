package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openlearn/compass/internal/cache"
	"github.com/openlearn/compass/internal/config"
	"github.com/openlearn/compass/internal/corpus"
	"github.com/openlearn/compass/internal/embed"
	"github.com/openlearn/compass/internal/feature"
	"github.com/openlearn/compass/internal/recommend"
	"github.com/openlearn/compass/internal/vectorindex"
)

// app wires the corpus store, recommendation engine and vector index for
// one CLI invocation.
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	store *corpus.SQLite
	cache cache.Cache

	engine *recommend.Engine
	index  *vectorindex.ResourceIndex
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := corpus.OpenSQLite(filepath.Join(cfg.DataDir, "corpus.db"))
	if err != nil {
		return nil, err
	}

	var c cache.Cache
	if cfg.Cache.RedisAddr != "" {
		c = cache.NewRedis(cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, log)
	} else {
		c = cache.NewMemory()
	}

	engine := recommend.NewEngine(c, recommend.Config{
		Features: feature.Config{
			TargetDim: cfg.Features.TargetDim,
			MaxVocab:  cfg.Features.MaxVocab,
		},
		CacheTTL:  cfg.Cache.TTL,
		StatePath: filepath.Join(cfg.DataDir, "features.bin"),
		Logger:    log,
	})
	engine.RestoreState()

	index := vectorindex.NewResourceIndex(newEmbedder(cfg), vectorindex.Config{
		Dimension:      cfg.Index.Dimension,
		TrainThreshold: cfg.Index.TrainThreshold,
		HNSW: vectorindex.HNSWConfig{
			M:        cfg.Index.HNSWM,
			EfSearch: cfg.Index.HNSWEfSearch,
			Ml:       cfg.Index.HNSWMl,
		},
		Logger: log,
	})

	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		cache:  c,
		engine: engine,
		index:  index,
	}, nil
}

func newEmbedder(cfg config.Config) embed.Embedder {
	if cfg.Embedder.Provider == "openai" {
		return embed.NewOpenAIEmbedder(embed.OpenAIConfig{
			BaseURL:    cfg.Embedder.BaseURL,
			APIKey:     cfg.Embedder.APIKey,
			Model:      cfg.Embedder.Model,
			Dimensions: cfg.Embedder.Dimensions,
		})
	}
	return embed.NewHashEmbedder(cfg.Embedder.Dimensions)
}

func (a *app) indexPath() string {
	return filepath.Join(a.cfg.DataDir, "index.bin")
}

// loadIndex restores the persisted vector index, falling back to building
// one from the current corpus.
func (a *app) loadIndex(ctx context.Context) error {
	if err := a.index.Load(a.indexPath()); err == nil {
		return nil
	}
	resources, err := a.store.ListResources(ctx)
	if err != nil {
		return err
	}
	a.index.Rebuild(ctx, resources)
	return nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close corpus store")
	}
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close cache")
		}
	}
}
