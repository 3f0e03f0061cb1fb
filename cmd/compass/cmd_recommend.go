package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openlearn/compass/internal/models"
)

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend resources for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetInt64("user")
			limit, _ := cmd.Flags().GetInt("limit")

			user := models.UserData{}
			user.PreferredDifficulty, _ = cmd.Flags().GetString("difficulty")
			user.PreferredLearningStyle, _ = cmd.Flags().GetString("learning-style")
			user.PreferredMediaTypes, _ = cmd.Flags().GetStringSlice("media-types")

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
			interactions, err := a.store.UserInteractions(ctx, userID)
			if err != nil {
				return err
			}

			recs := a.engine.Recommend(ctx, userID, user, interactions, resources, limit)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(recs)
			}
			if len(recs) == 0 {
				fmt.Println("No recommendations available")
				return nil
			}
			for i, rec := range recs {
				fmt.Printf("%2d. %-45s  score=%.3f\n    %s\n",
					i+1, truncate(rec.Resource.Title, 45), rec.Score, rec.Reason)
			}
			return nil
		},
	}

	cmd.Flags().Int64("user", 0, "User id")
	cmd.Flags().Int("limit", 10, "Maximum number of recommendations")
	cmd.Flags().String("difficulty", "", "Preferred difficulty")
	cmd.Flags().String("learning-style", "", "Preferred learning style")
	cmd.Flags().StringSlice("media-types", nil, "Preferred media types")
	cmd.MarkFlagRequired("user")
	return cmd
}
