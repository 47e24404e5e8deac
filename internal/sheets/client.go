// Package sheets is the thin Google Sheets adapter behind the ledger and
// stats ports. It translates 1-based row/column addressing into A1 ranges
// and RepeatCell requests; all policy (retries, duplicate handling) lives
// in the callers.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/scooterfleet/assetbot/internal/ledger"
)

type Config struct {
	CredentialsPath string
	SpreadsheetID   string
	SheetName       string
	SheetURL        string
}

type Client struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.RWMutex
	svc     *sheets.Service
	sheetID int64
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SheetURL == "" {
		cfg.SheetURL = fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", cfg.SpreadsheetID)
	}
	c := &Client{cfg: cfg, logger: logger}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh rebuilds the authorized service handle and re-resolves the
// worksheet id. Called at startup and from the 12-hour session ticker.
func (c *Client) Refresh(ctx context.Context) error {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(c.cfg.CredentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return fmt.Errorf("sheets service: %w", err)
	}
	meta, err := svc.Spreadsheets.Get(c.cfg.SpreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("spreadsheet metadata: %w", err)
	}
	var sheetID int64 = -1
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == c.cfg.SheetName {
			sheetID = s.Properties.SheetId
			break
		}
	}
	if sheetID < 0 {
		return fmt.Errorf("worksheet %q not found", c.cfg.SheetName)
	}

	c.mu.Lock()
	c.svc = svc
	c.sheetID = sheetID
	c.mu.Unlock()
	c.logger.Info("sheets.session.ok", "sheet", c.cfg.SheetName, "sheet_id", sheetID)
	return nil
}

func (c *Client) handle() (*sheets.Service, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.svc, c.sheetID
}

// URL is the human-facing link for the "open table" button.
func (c *Client) URL() string {
	return c.cfg.SheetURL
}

// ColumnValues implements ledger.Table.
func (c *Client) ColumnValues(ctx context.Context, col int) ([]string, error) {
	svc, _ := c.handle()
	letter := columnLetter(col)
	rng := fmt.Sprintf("'%s'!%s:%s", c.cfg.SheetName, letter, letter)
	resp, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).
		MajorDimension("COLUMNS").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get column %s: %w", letter, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	values := make([]string, 0, len(resp.Values[0]))
	for _, v := range resp.Values[0] {
		values = append(values, fmt.Sprint(v))
	}
	return values, nil
}

// UpdateCell implements ledger.Table. RAW input keeps leading zeros intact.
func (c *Client) UpdateCell(ctx context.Context, row, col int, value string) error {
	svc, _ := c.handle()
	rng := fmt.Sprintf("'%s'!%s%d", c.cfg.SheetName, columnLetter(col), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// HighlightCells implements ledger.Table via a batched RepeatCell request.
func (c *Client) HighlightCells(ctx context.Context, row int, cols []int, color ledger.Color) error {
	svc, sheetID := c.handle()
	reqs := make([]*sheets.Request, 0, len(cols))
	for _, col := range cols {
		reqs = append(reqs, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(row - 1),
					EndRowIndex:      int64(row),
					StartColumnIndex: int64(col - 1),
					EndColumnIndex:   int64(col),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{
							Red:   color.Red,
							Green: color.Green,
							Blue:  color.Blue,
						},
					},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		})
	}
	_, err := svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("highlight row %d: %w", row, err)
	}
	return nil
}

// AllValues implements stats.Source: the full worksheet as a row grid.
func (c *Client) AllValues(ctx context.Context) ([][]string, error) {
	svc, _ := c.handle()
	rng := fmt.Sprintf("'%s'", c.cfg.SheetName)
	resp, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get all values: %w", err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, v := range raw {
			row = append(row, fmt.Sprint(v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnLetter converts a 1-based column index to its A1 letters.
func columnLetter(col int) string {
	var b strings.Builder
	for col > 0 {
		col--
		b.WriteByte(byte('A' + col%26))
		col /= 26
	}
	// digits were produced low-order first
	s := []byte(b.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}
