package report

import (
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"bist-screener/internal/signal"
)

// PDFWriter renders the daily signal table to a PDF file at a fixed
// path. The document is produced whenever the run has at least one
// signal.
type PDFWriter struct {
	path string
}

// NewPDFWriter creates a PDF writer targeting path.
func NewPDFWriter(path string) *PDFWriter {
	return &PDFWriter{path: path}
}

var pdfColumns = []string{"Hisse", "Sinyal", "Giris", "Stop", "TP", "Skor", "R/R"}

// Render writes the report and returns its path.
func (w *PDFWriter) Render(run signal.Run) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := fmt.Sprintf("BIST Günlük Sinyaller - %s", run.Date.Format("2006-01-02"))
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	colWidth := 190.0 / float64(len(pdfColumns))

	// Header row
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(0, 0, 139)
	pdf.SetTextColor(245, 245, 245)
	for _, col := range pdfColumns {
		pdf.CellFormat(colWidth, 9, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Signal rows
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(0, 0, 0)
	for _, s := range run.Signals {
		cells := []string{
			s.Symbol,
			s.Kind,
			formatPrice(s.Entry),
			formatPrice(s.Stop),
			formatPrice(s.Target),
			strconv.Itoa(s.Score),
			formatPrice(s.RewardRisk),
		}
		for _, cell := range cells {
			pdf.CellFormat(colWidth, 8, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, tr("Yatırım tavsiyesi değildir."), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(w.path); err != nil {
		return "", fmt.Errorf("write PDF report: %w", err)
	}

	return w.path, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
