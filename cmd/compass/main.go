package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openlearn/compass/internal/config"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "compass",
		Short: "Compass - hybrid learning resource recommendations",
		Long: `compass recommends learning resources by blending content-based
similarity with collaborative signals, and serves semantic search over
the resource corpus through a vector index.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default <data-dir>/compass.yaml)")
	rootCmd.PersistentFlags().String("data-dir", ".compass", "Data directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newResourceCmd(),
		newInteractCmd(),
		newRecommendCmd(),
		newSearchCmd(),
		newTrainCmd(),
		newStatsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("compass version %s\n", version)
			}
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory and a default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			cfgPath := filepath.Join(dataDir, "compass.yaml")
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				content := fmt.Sprintf(`# Compass configuration
# created: %s
data_dir: %s
log_level: info

features:
  target_dim: 20
  max_vocab: 1000

index:
  dimension: 384
  train_threshold: 256

cache:
  # redis_addr: localhost:6379
  ttl: 1h

embedder:
  provider: hash
  dimensions: 384
`, time.Now().Format(time.RFC3339), dataDir)
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					return fmt.Errorf("failed to create compass.yaml: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "initialized",
					"path":   dataDir,
				})
			} else {
				fmt.Printf("Initialized %s\n", dataDir)
			}
			return nil
		},
	}
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = filepath.Join(dataDir, "compass.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}
