package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Re-fit the feature pipeline and rebuild the vector index",
		Long: `train re-fits the content feature models against the current
resource corpus, persists the fitted state, and rebuilds the vector
index from scratch. Run it after bulk corpus changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			resources, err := a.store.ListResources(ctx)
			if err != nil {
				return err
			}

			if err := a.engine.TrainModels(ctx, resources); err != nil {
				return err
			}
			a.index.Rebuild(ctx, resources)
			if err := a.index.Save(a.indexPath()); err != nil {
				return err
			}

			stats := a.index.Stats()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"status":    "trained",
					"resources": len(resources),
					"index":     stats,
				})
			}
			fmt.Printf("Trained on %d resources (%s index, %d vectors)\n",
				len(resources), stats.IndexType, stats.TotalVectors)
			return nil
		},
	}
}
