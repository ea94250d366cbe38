package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildXLSX writes the report as a workbook: a Summary sheet with the
// headline statistics and category breakdown, and a Transactions sheet
// with the full history.
func BuildXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	const transactions = "Transactions"

	f.SetSheetName("Sheet1", summary)
	if _, err := f.NewSheet(transactions); err != nil {
		return nil, fmt.Errorf("create transactions sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"6366F1"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(summary, "A1", "Orbit Analytics Report")
	f.SetCellValue(summary, "A2", "Generated on")
	f.SetCellValue(summary, "B2", doc.GeneratedAt.Format("02 Jan 2006 15:04"))

	f.SetCellValue(summary, "A4", "Total Spent")
	f.SetCellValue(summary, "B4", doc.Statistics.Total.Rupees())
	f.SetCellValue(summary, "A5", "Average Expense")
	f.SetCellValue(summary, "B5", doc.Statistics.Average.Rupees())
	f.SetCellValue(summary, "A6", "Highest Expense")
	f.SetCellValue(summary, "B6", doc.Statistics.Highest.Rupees())
	f.SetCellValue(summary, "A7", "Transactions")
	f.SetCellValue(summary, "B7", doc.Statistics.Count)

	f.SetCellValue(summary, "A9", "Category")
	f.SetCellValue(summary, "B9", "Amount")
	f.SetCellValue(summary, "C9", "Share %")
	f.SetCellStyle(summary, "A9", "C9", headerStyle)
	for i, share := range doc.Breakdown {
		row := 10 + i
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), share.Category)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), share.Amount.Rupees())
		f.SetCellValue(summary, fmt.Sprintf("C%d", row), share.Percent)
	}

	f.SetCellValue(transactions, "A1", "Date")
	f.SetCellValue(transactions, "B1", "Description")
	f.SetCellValue(transactions, "C1", "Category")
	f.SetCellValue(transactions, "D1", "Amount")
	f.SetCellStyle(transactions, "A1", "D1", headerStyle)
	for i, e := range doc.History {
		row := 2 + i
		f.SetCellValue(transactions, fmt.Sprintf("A%d", row), e.Date.String())
		f.SetCellValue(transactions, fmt.Sprintf("B%d", row), e.Description)
		f.SetCellValue(transactions, fmt.Sprintf("C%d", row), e.Category)
		f.SetCellValue(transactions, fmt.Sprintf("D%d", row), e.Amount.Rupees())
	}
	f.SetColWidth(transactions, "B", "B", 40)

	var buf *bytes.Buffer
	buf, err = f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Build renders the document in the requested format.
func Build(format Format, doc Document) ([]byte, error) {
	if format == FormatXLSX {
		return BuildXLSX(doc)
	}
	return BuildPDF(doc)
}
