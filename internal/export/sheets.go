// Package export appends record changes to a Google Sheets spreadsheet. The
// sheet is an audit trail, not a store: rows are only ever appended, and the
// worker is the single writer.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

// Row is one exported change.
type Row struct {
	Timestamp time.Time
	Op        string
	Kind      records.Kind
	ID        int64
	Period    core.Period
	Name      string
	Value     float64
	Currency  core.Currency
}

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Options configures the exporter. Exactly one of CredentialsJSON or
// CredentialsFile must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// NewExporter creates a Sheets exporter using service account credentials.
func NewExporter(ctx context.Context, opts Options) (*Exporter, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Registros"
	}

	credentialsJSON, err := resolveCredentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func resolveCredentials(opts Options) ([]byte, error) {
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		return []byte(opts.CredentialsJSON), nil
	case strings.TrimSpace(opts.CredentialsFile) != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials")
}

// Append writes one change row after the last occupied row of the sheet.
func (e *Exporter) Append(ctx context.Context, row Row) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row from the sheet dimensions first.
	rng := fmt.Sprintf("%s!A:A", e.sheetName)
	resp, err := e.svc.Spreadsheets.Values.Get(e.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", e.sheetName, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:H%d", e.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		row.Timestamp.Format(time.RFC3339),
		row.Op,
		row.Kind.String(),
		row.ID,
		row.Period.String(),
		row.Name,
		row.Value,
		string(row.Currency),
	}}}

	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update row in sheet %s: %w", e.sheetName, err)
	}

	return dataRange, nil
}
