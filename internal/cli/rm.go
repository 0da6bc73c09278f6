package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove an itinerary entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.svc.NewSession().Delete(ctx, args[0]); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"removed": args[0]})
		}

		PrintSuccess("Itinerary Item Removed")
		return nil
	},
}
