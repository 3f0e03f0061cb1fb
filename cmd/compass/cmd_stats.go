package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vector index statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.loadIndex(cmd.Context()); err != nil {
				return err
			}
			stats := a.index.Stats()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(stats)
			}
			fmt.Printf("Index type:     %s\n", stats.IndexType)
			fmt.Printf("Total vectors:  %d\n", stats.TotalVectors)
			fmt.Printf("Dimension:      %d\n", stats.Dimension)
			fmt.Printf("Metadata count: %d\n", stats.MetadataCount)
			if !stats.LastUpdated.IsZero() {
				fmt.Printf("Last updated:   %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
