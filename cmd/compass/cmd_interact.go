package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openlearn/compass/internal/models"
)

func newInteractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interact",
		Short: "Record a user interaction with a resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetInt64("user")
			resourceID, _ := cmd.Flags().GetInt64("resource")
			typ, _ := cmd.Flags().GetString("type")
			rating, _ := cmd.Flags().GetInt("rating")
			minutes, _ := cmd.Flags().GetInt("minutes")

			in := models.Interaction{
				UserID:           userID,
				ResourceID:       resourceID,
				Type:             models.InteractionType(typ),
				Rating:           rating,
				TimeSpentMinutes: minutes,
			}
			switch in.Type {
			case models.InteractionView, models.InteractionLike, models.InteractionRate,
				models.InteractionComplete, models.InteractionSave:
			default:
				return fmt.Errorf("unknown interaction type %q", typ)
			}
			if in.Type == models.InteractionRate && (rating < 1 || rating > 5) {
				return fmt.Errorf("rate interactions need --rating between 1 and 5")
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.store.RecordInteraction(ctx, in); err != nil {
				return err
			}
			// Cached rankings for this user are stale now.
			a.engine.InvalidateUser(ctx, userID)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"status":      "recorded",
					"user_id":     userID,
					"resource_id": resourceID,
					"type":        typ,
				})
			} else {
				fmt.Printf("Recorded %s by user %d on resource %d\n", typ, userID, resourceID)
			}
			return nil
		},
	}

	cmd.Flags().Int64("user", 0, "User id")
	cmd.Flags().Int64("resource", 0, "Resource id")
	cmd.Flags().String("type", "view", "Interaction type (view|like|rate|complete|save)")
	cmd.Flags().Int("rating", 0, "Rating 1-5 (type=rate only)")
	cmd.Flags().Int("minutes", 0, "Time spent in minutes")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("resource")
	return cmd
}
