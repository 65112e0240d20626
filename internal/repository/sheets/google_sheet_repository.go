package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/brick/gearlist/internal/config"
	"github.com/brick/gearlist/internal/domain/models"
)

// ValueAppender is the single Sheets call the log writer needs.
type ValueAppender interface {
	AppendRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository appends rows through the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// LogWriter writes one summary row per exported checklist.
type LogWriter struct {
	appender   ValueAppender
	sheetRange string
}

// NewLogWriter builds a writer targeting sheetRange.
func NewLogWriter(appender ValueAppender, sheetRange string) *LogWriter {
	return &LogWriter{appender: appender, sheetRange: sheetRange}
}

// AppendLog appends the row for entry.
func (w *LogWriter) AppendLog(ctx context.Context, entry models.LogEntry) error {
	return w.appender.AppendRow(ctx, w.sheetRange, LogRow(entry))
}

// LogRow lays out an entry as: log id, submitted at, submitter, job,
// selected/total, and the selected items.
func LogRow(entry models.LogEntry) []interface{} {
	items := make([]string, 0, len(entry.SelectedItems))
	for _, item := range entry.SelectedItems {
		if item.Quantity > 1 {
			items = append(items, fmt.Sprintf("%s x%d", item.Description, item.Taken()))
		} else {
			items = append(items, item.Description)
		}
	}

	return []interface{}{
		entry.ID,
		entry.SubmittedAt.UTC().Format(time.RFC3339),
		entry.SubmittedBy,
		entry.JobLabel,
		fmt.Sprintf("%d/%d", entry.TotalSelected, entry.TotalItems),
		strings.Join(items, "; "),
	}
}
