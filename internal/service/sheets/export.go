package sheets

import (
	"StaffDesk/bot/forms"
	"StaffDesk/internal/config"
	"StaffDesk/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Exporter appends completed form submissions to a Google Sheet, one row
// per submission. Rows carry the timestamp, form id, user id and the
// collected fields in name order.
type Exporter struct {
	service       *sheetsapi.Service
	spreadsheetId string
	writeRange    string
	log           *slog.Logger
}

// New builds the exporter from a service-account credentials file. Returns
// nil when the sheets integration is disabled.
func New(conf *config.Config, logger *slog.Logger) (*Exporter, error) {
	if !conf.Sheets.Enabled {
		return nil, nil
	}

	credentials, err := os.ReadFile(conf.Sheets.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentials, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}

	ctx := context.Background()
	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		service:       service,
		spreadsheetId: conf.Sheets.SpreadsheetId,
		writeRange:    conf.Sheets.Range,
		log:           logger.With(sl.Module("sheets")),
	}, nil
}

// ExportSubmission appends one submission row.
func (e *Exporter) ExportSubmission(ctx context.Context, formID string, userID int64, data forms.Data) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	row := []interface{}{
		time.Now().Format(time.RFC3339),
		formID,
		userID,
	}
	for _, name := range names {
		row = append(row, fmt.Sprintf("%s=%s", name, data[name].String()))
	}

	values := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	_, err := e.service.Spreadsheets.Values.
		Append(e.spreadsheetId, e.writeRange, values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append error: %w", err)
	}

	e.log.Debug("submission exported",
		slog.String("form_id", formID),
		slog.Int64("user_id", userID),
		slog.Int("fields", len(names)),
	)
	return nil
}
