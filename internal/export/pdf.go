package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/log"
)

// PDF writes a printable, day-by-day itinerary in chronological order.
func PDF(w io.Writer, entries []itinerary.Entry, opts Options) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, tr(opts.title()), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	if len(entries) == 0 {
		pdf.SetFont("Arial", "I", 12)
		pdf.CellFormat(0, 10, "No Plans", "", 1, "C", false, 0, "")
	}

	day := ""
	for _, e := range Chronological(entries) {
		if d := e.Date.String(); d != day {
			day = d
			pdf.Ln(3)
			pdf.SetFont("Arial", "B", 14)
			pdf.SetFillColor(239, 231, 252)
			pdf.CellFormat(0, 10, day, "", 1, "L", true, 0, "")
		}

		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, e.Time.String(), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 8, tr(e.Title()), "", "L", false)
	}

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated %s", opts.Now.Format("02 Jan 2006 15:04")), "T", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}

	log.Debug("pdf export completed", "entry_count", len(entries))
	return nil
}
