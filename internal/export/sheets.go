package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/xrpstat/gwstat/internal/report"
)

// SheetsWriter implements ReportWriter using the Google Sheets API. Each
// gateway gets its own OBLIGATIONS and HOLDINGS tabs, rewritten in full on
// every export.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the gateway's tabs exist, then clears and rewrites them.
func (w *SheetsWriter) Write(ctx context.Context, gateway string, resp report.Response) error {
	obligationsTab := gateway + "_OBLIGATIONS"
	holdingsTab := gateway + "_HOLDINGS"

	if err := w.ensureSheets(ctx, obligationsTab, holdingsTab); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{obligationsTab + "!A:C", holdingsTab + "!A:D"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data: []*sheets.ValueRange{
				{Range: obligationsTab + "!A1", Values: buildObligationRows(resp)},
				{Range: holdingsTab + "!A1", Values: buildHoldingRows(resp)},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	return nil
}

// buildObligationRows builds the per-currency obligations tab.
// Columns: Ledger | Currency | Total
func buildObligationRows(resp report.Response) [][]any {
	data := make([][]any, 0, len(resp.Obligations)+1)
	data = append(data, []any{"Ledger", "Currency", "Total"})
	for _, entry := range resp.SortedObligations() {
		data = append(data, []any{int64(resp.LedgerIndex), entry.Currency, entry.Value})
	}
	return data
}

// buildHoldingRows builds the holdings tab covering hot-wallet balances and
// assets. Columns: Kind | Account | Currency | Value
func buildHoldingRows(resp report.Response) [][]any {
	data := [][]any{{"Kind", "Account", "Currency", "Value"}}
	data = appendSection(data, "hot wallet", resp.Balances)
	data = appendSection(data, "asset", resp.Assets)
	return data
}

func appendSection(data [][]any, kind string, section map[string][]report.BalanceEntry) [][]any {
	for _, account := range report.SortedAccounts(section) {
		for _, entry := range section[account] {
			data = append(data, []any{kind, account, entry.Currency, entry.Value})
		}
	}
	return data
}

// ensureSheets adds any missing tabs to the spreadsheet.
func (w *SheetsWriter) ensureSheets(ctx context.Context, titles ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, title := range titles {
		if existing[title] {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("adding sheets: %w", err)
	}
	return nil
}
