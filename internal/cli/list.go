package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/export"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/schedule"
)

var listByDate bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List itinerary entries",
	Long: `Display all itinerary entries in the order they were added.

Use --by-date to sort them by their scheduled date and time instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.svc.ListEntries(ctx)
		if err != nil {
			return err
		}
		if listByDate {
			entries = export.Chronological(entries)
		}

		if jsonOutput {
			if entries == nil {
				entries = []itinerary.Entry{}
			}
			return outputJSON(entries)
		}

		PrintSection("Itinerary")
		if len(entries) == 0 {
			PrintEmptyState("No Plans")
			return nil
		}

		PrintTable([]string{"ID", "Date", "Time", "Description"}, entryRows(entries))
		PrintInfo("\n  " + PrintCount(len(entries), "entry", "entries"))
		return nil
	},
}

func entryRows(entries []itinerary.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			schedule.EncodeDate(e.Date),
			schedule.EncodeTime(e.Time),
			e.Title(),
		})
	}
	return rows
}

func init() {
	listCmd.Flags().BoolVar(&listByDate, "by-date", false, "Sort by scheduled date and time")
}
