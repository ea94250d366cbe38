// Package report assembles the exportable analytics documents. The PDF
// keeps the fixed layout of the on-screen export: title block, generation
// timestamp, pie chart snapshot, then the complete transaction history.
// The table deliberately lists every persisted expense, not the filtered
// view the charts show.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"orbit/internal/analytics"
	"orbit/internal/core"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a requested export format; empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f Format) MIME() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

func (f Format) Filename() string {
	return "orbit-report." + string(f)
}

// Document carries everything a report needs. ChartPNG is the opaque
// snapshot the renderer produced; it is embedded, never inspected, and
// may be nil when there was nothing to chart.
type Document struct {
	GeneratedAt time.Time
	ChartPNG    []byte
	Statistics  analytics.Statistics
	Breakdown   []analytics.Share
	History     []core.Expense
}

// BuildPDF lays out the report document and returns its bytes.
func BuildPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Orbit Analytics Report", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Title block
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(99, 102, 241)
	pdf.SetXY(0, 14)
	pdf.CellFormat(210, 10, "Orbit Analytics Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(0, 26)
	pdf.CellFormat(210, 8, "Generated on: "+doc.GeneratedAt.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")

	// Chart snapshot, centered on the 210mm page at a fixed 100x100 box.
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.SetXY(14, 42)
	pdf.CellFormat(0, 8, "Spending Breakdown", "", 1, "L", false, 0, "")

	if len(doc.ChartPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("pie-chart", opts, bytes.NewReader(doc.ChartPNG))
		pdf.ImageOptions("pie-chart", 55, 50, 100, 100, false, opts, 0, "")
	} else {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.SetXY(14, 52)
		pdf.CellFormat(0, 8, "No expenses to chart", "", 1, "L", false, 0, "")
	}

	// Transaction table: the full history, unfiltered.
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(30, 41, 59)
	pdf.SetXY(14, 156)
	pdf.CellFormat(0, 8, "Recent Transactions", "", 1, "L", false, 0, "")

	colWidths := [4]float64{28, 82, 38, 34}
	headers := [4]string{"Date", "Description", "Category", "Amount"}

	pdf.SetXY(14, 165)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(99, 102, 241)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 41, 59)
	pdf.SetFillColor(248, 250, 252)
	fill := false
	for _, e := range doc.History {
		pdf.SetX(14)
		pdf.CellFormat(colWidths[0], 7, e.Date.String(), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[1], 7, tr(clip(e.Description, 52)), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[2], 7, tr(clip(e.Category, 22)), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[3], 7, core.FormatINRPlain(e.Amount), "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
		fill = !fill
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// clip shortens a cell value so it cannot overflow its column.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
