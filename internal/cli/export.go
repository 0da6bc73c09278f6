package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/export"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the itinerary to a calendar or PDF",
}

var exportICSCmd = &cobra.Command{
	Use:   "ics",
	Short: "Export as an iCalendar (.ics) file",
	Long: `Write the itinerary as an iCalendar feed, one event per entry.

Without --out the calendar is written to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(exportOut, export.ICS)
	},
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export as a printable PDF",
	Long: `Write the itinerary as a PDF grouped by day.

Without --out the file is written to itinerary.pdf.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := exportOut
		if out == "" {
			out = "itinerary.pdf"
		}
		return runExport(out, export.PDF)
	},
}

type renderFunc func(io.Writer, []itinerary.Entry, export.Options) error

func runExport(out string, render renderFunc) error {
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

	var buf bytes.Buffer
	if err := render(&buf, entries, a.exportOptions()); err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	if out == "" || out == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if err := a.fs.AtomicWrite(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if jsonOutput {
		return outputJSON(map[string]any{"path": out, "entries": len(entries)})
	}
	PrintSuccess(fmt.Sprintf("Exported %s to %s", PrintCount(len(entries), "entry", "entries"), out))
	return nil
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "Output file (\"-\" for stdout)")
	exportCmd.AddCommand(exportICSCmd)
	exportCmd.AddCommand(exportPDFCmd)
}
