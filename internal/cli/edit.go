package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editDate string
	editTime string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Reschedule an itinerary entry",
	Long: `Change the date and/or time of an entry. The description is kept.

Dates are "Mon Jan 06 2025" or "2025-01-06". Times are "2:30 PM" or "14:30".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if editDate == "" && editTime == "" {
			return fmt.Errorf("nothing to change: pass --date and/or --time")
		}

		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		current, err := a.svc.GetEntry(ctx, args[0])
		if err != nil {
			return err
		}

		sess := a.svc.NewSession()
		if err := sess.BeginEdit(current.Record()); err != nil {
			return err
		}
		defer cancelPending(sess)

		if err := applySchedule(sess, editDate, editTime); err != nil {
			return err
		}

		e, err := sess.Save(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(e)
		}

		PrintSuccess("The itinerary item has been updated")
		printEntry(e)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editDate, "date", "", "New date")
	editCmd.Flags().StringVar(&editTime, "time", "", "New time")
}
