package transcript

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the transcript as an A4 document.
func WritePDF(w io.Writer, title string, entries []Entry) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Core fonts are cp1252; characters outside it are dropped by tr.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 10, tr(title), "", "C", false)
	pdf.Ln(6)

	for _, e := range entries {
		switch e.Kind {
		case KindPlayer:
			pdf.SetFont("Courier", "B", 11)
			pdf.SetTextColor(40, 40, 120)
			pdf.MultiCell(0, 6, tr("> "+e.Text), "", "L", false)
		case KindHint:
			pdf.SetFont("Helvetica", "I", 11)
			pdf.SetTextColor(150, 110, 0)
			pdf.MultiCell(0, 6, tr("Hint: "+trimHintPrefix(e.Text)), "", "L", false)
			pdf.Ln(2)
		default:
			pdf.SetFont("Times", "", 12)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, 6, tr(e.Text), "", "L", false)
			pdf.Ln(2)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("transcript: writing pdf: %w", err)
	}
	return nil
}

func trimHintPrefix(s string) string {
	const prefix = "Hint: "
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
