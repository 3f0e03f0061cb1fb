package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openlearn/compass/internal/models"
)

func newResourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage the learning resource corpus",
	}
	cmd.AddCommand(newResourceImportCmd(), newResourceListCmd())
	return cmd
}

func newResourceImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import resources from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var resources []models.Resource
			if err := json.Unmarshal(data, &resources); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			for _, r := range resources {
				if err := a.store.UpsertResource(ctx, r); err != nil {
					return err
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]int{"imported": len(resources)})
			} else {
				fmt.Printf("Imported %d resources\n", len(resources))
			}
			return nil
		},
	}
}

func newResourceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all resources in the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			resources, err := a.store.ListResources(cmd.Context())
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(resources)
			}
			for _, r := range resources {
				fmt.Printf("%6d  %-45s  %-8s  %-12s  %.1f (%d)\n",
					r.ID, truncate(r.Title, 45), r.MediaType, r.Difficulty,
					r.Rating, r.RatingCount)
			}
			fmt.Printf("%d resources\n", len(resources))
			return nil
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
