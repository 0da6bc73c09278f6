package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/itinerary"
)

var (
	addDescription string
	addDate        string
	addTime        string
	addRegion      string
	addAttraction  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry to the itinerary",
	Long: `Add a new itinerary entry.

The entry is either free text (--desc) or an attraction from the catalog
(--region with --attraction). Date and time default to now.

Dates are "Mon Jan 06 2025" or "2025-01-06". Times are "2:30 PM" or "14:30".`,
	Example: `  itinerary add --desc "Visit Bako National Park" --date 2025-01-06 --time "9:00 AM"
  itinerary add --region Miri --attraction 7 --date 2025-01-08 --time 08:00`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (addRegion == "") != (addAttraction == "") {
			return fmt.Errorf("--region and --attraction must be given together")
		}

		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		sess := a.svc.NewSession()
		if err := sess.BeginCompose(); err != nil {
			return err
		}
		defer cancelPending(sess)

		if addRegion != "" {
			region, err := a.svc.Catalog().Region(addRegion)
			if err != nil {
				return err
			}
			attraction, err := a.svc.Catalog().Find(region.Name, addAttraction)
			if err != nil {
				return err
			}
			ref := itinerary.CatalogRef{Name: attraction.Name, Region: region.Name}
			if err := sess.SetAttraction(ref); err != nil {
				return err
			}
		} else if err := sess.SetDescription(addDescription); err != nil {
			return err
		}

		if err := applySchedule(sess, addDate, addTime); err != nil {
			return err
		}

		e, err := sess.Confirm(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(e)
		}

		PrintSuccess(fmt.Sprintf("Added %q", e.Title()))
		printEntry(e)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "desc", "d", "", "Trip description")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date (default: today)")
	addCmd.Flags().StringVar(&addTime, "time", "", "Time (default: now)")
	addCmd.Flags().StringVar(&addRegion, "region", "", "Catalog region of the attraction")
	addCmd.Flags().StringVar(&addAttraction, "attraction", "", "Catalog attraction id")
}
