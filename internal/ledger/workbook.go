package ledger

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"airledger/pkg/models"
)

const (
	SheetSummary = "Summary"
	SheetLedger  = "Ledger"
)

// WorkbookFileName swaps the summary CSV extension for .xlsx.
func WorkbookFileName(summaryPath string) string {
	return strings.TrimSuffix(summaryPath, filepath.Ext(summaryPath)) + ".xlsx"
}

// WriteWorkbook saves an XLSX copy of the batch: a Summary sheet with one line
// per document and a Ledger sheet with every row.
func WriteWorkbook(path string, docs []Document) error {
	const op = "WriteWorkbook"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(SheetLedger); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	summary := make([][]string, 0, len(docs)+1)
	summary = append(summary, models.SummaryHeaders)
	var ledger [][]string
	ledger = append(ledger, models.LedgerHeaders)
	for _, d := range docs {
		summary = append(summary, d.Summary.Values())
		for _, r := range d.Rows {
			ledger = append(ledger, r.Values())
		}
	}

	if err := writeSheet(f, SheetSummary, summary); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeSheet(f, SheetLedger, ledger); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%s: failed to save %s: %w", op, path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
