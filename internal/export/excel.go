package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/xrpstat/gwstat/internal/report"
)

// ExcelWriter writes reports as .xlsx workbooks with one sheet per section.
type ExcelWriter struct {
	dir string
}

// NewExcelWriter creates a writer storing workbooks under dir.
func NewExcelWriter(dir string) *ExcelWriter {
	return &ExcelWriter{dir: dir}
}

// Write renders the report to <dir>/<gateway>-<ledger index>.xlsx. Sections
// absent from the response produce no sheet.
func (w *ExcelWriter) Write(_ context.Context, gateway string, resp report.Response) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(resp.Obligations) > 0 {
		if err := writeObligations(f, resp); err != nil {
			return err
		}
	}
	if len(resp.Balances) > 0 {
		if err := writeAccountSection(f, "BALANCES", resp.Balances); err != nil {
			return err
		}
	}
	if len(resp.Assets) > 0 {
		if err := writeAccountSection(f, "ASSETS", resp.Assets); err != nil {
			return err
		}
	}

	// Drop the default sheet once real ones exist.
	if sheets := f.GetSheetList(); len(sheets) > 1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("dropping default sheet: %w", err)
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%s-%d.xlsx", gateway, resp.LedgerIndex))
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeObligations(f *excelize.File, resp report.Response) error {
	const sheet = "OBLIGATIONS"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []any{"Currency", "Total"}); err != nil {
		return err
	}
	for i, entry := range resp.SortedObligations() {
		if err := setRow(f, sheet, i+2, []any{entry.Currency, entry.Value}); err != nil {
			return err
		}
	}
	return nil
}

func writeAccountSection(f *excelize.File, sheet string, section map[string][]report.BalanceEntry) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []any{"Account", "Currency", "Value"}); err != nil {
		return err
	}
	row := 2
	for _, account := range report.SortedAccounts(section) {
		for _, entry := range section[account] {
			if err := setRow(f, sheet, row, []any{account, entry.Currency, entry.Value}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
