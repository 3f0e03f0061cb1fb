package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openlearn/compass/internal/models"
	"github.com/openlearn/compass/internal/vectorindex"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Semantic search over the resource corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.loadIndex(ctx); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			filters := searchFilters(cmd)
			query := strings.Join(args, " ")

			results := a.index.Search(ctx, query, limit, filters)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(results)
			}
			if len(results) == 0 {
				fmt.Println("No results")
				return nil
			}
			for i, res := range results {
				fmt.Printf("%2d. %-45s  similarity=%.3f\n",
					i+1, truncate(res.Resource.Title, 45), res.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of results")
	cmd.Flags().String("media-type", "", "Filter by media type")
	cmd.Flags().String("difficulty", "", "Filter by difficulty")
	cmd.Flags().String("learning-style", "", "Filter by learning style")
	cmd.Flags().Int("min-duration", 0, "Minimum duration in minutes")
	cmd.Flags().Int("max-duration", 0, "Maximum duration in minutes")
	cmd.Flags().Float64("min-rating", 0, "Minimum rating")
	cmd.Flags().StringSlice("tags", nil, "Require at least one of these tags")
	return cmd
}

func searchFilters(cmd *cobra.Command) *vectorindex.Filters {
	mediaType, _ := cmd.Flags().GetString("media-type")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	style, _ := cmd.Flags().GetString("learning-style")
	minDur, _ := cmd.Flags().GetInt("min-duration")
	maxDur, _ := cmd.Flags().GetInt("max-duration")
	minRating, _ := cmd.Flags().GetFloat64("min-rating")
	tags, _ := cmd.Flags().GetStringSlice("tags")

	f := &vectorindex.Filters{
		MediaType:     models.MediaType(mediaType),
		Difficulty:    models.Difficulty(difficulty),
		LearningStyle: models.LearningStyle(style),
		MinDuration:   minDur,
		MaxDuration:   maxDur,
		MinRating:     minRating,
		Tags:          tags,
	}
	if mediaType == "" && difficulty == "" && style == "" &&
		minDur == 0 && maxDur == 0 && minRating == 0 && len(tags) == 0 {
		return nil
	}
	return f
}
