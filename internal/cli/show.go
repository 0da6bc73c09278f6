package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one itinerary entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.svc.GetEntry(ctx, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(e)
		}

		printEntry(e)
		return nil
	},
}

func printEntry(e itinerary.Entry) {
	PrintSection("Itinerary Entry")
	PrintLabelValue("ID", e.ID)
	switch l := e.Label.(type) {
	case itinerary.CatalogRef:
		PrintLabelValue("Attraction", l.Name)
		PrintLabelValue("Region", l.Region)
	default:
		PrintLabelValue("Description", e.Title())
	}
	PrintLabelValue("Date", schedule.EncodeDate(e.Date))
	PrintLabelValue("Time", schedule.EncodeTime(e.Time))
}
