package remote

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/pkg/clients/supabase"
)

// LogRepository reads and writes the exported checklist logs.
type LogRepository struct {
	client supabase.Client
	table  string
	logger *zap.Logger
}

// NewLogRepository builds a repository over the named table.
func NewLogRepository(client supabase.Client, table string, logger *zap.Logger) *LogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == "" {
		table = "logs"
	}
	return &LogRepository{client: client, table: table, logger: logger}
}

// List returns every log, newest first.
func (r *LogRepository) List(ctx context.Context) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	q := supabase.Query{OrderBy: "submitted_at", Descending: true}
	if err := r.client.Select(ctx, r.table, q, &entries); err != nil {
		return nil, readError("list logs", err)
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}

// Get returns the log with the given id.
func (r *LogRepository) Get(ctx context.Context, id int64) (models.LogEntry, error) {
	var entries []models.LogEntry
	q := supabase.Query{Eq: map[string]string{"id": strconv.FormatInt(id, 10)}}
	if err := r.client.Select(ctx, r.table, q, &entries); err != nil {
		return models.LogEntry{}, readError(fmt.Sprintf("get log %d", id), err)
	}
	if len(entries) == 0 {
		return models.LogEntry{}, fmt.Errorf("log %d: %w", id, ErrNotFound)
	}
	return entries[0], nil
}

// Insert stores a new log and returns it with the id assigned by the store.
func (r *LogRepository) Insert(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	entry.ID = 0

	var created []models.LogEntry
	if err := r.client.Insert(ctx, r.table, []models.LogEntry{entry}, &created); err != nil {
		return models.LogEntry{}, writeError("insert log", err)
	}
	if len(created) > 0 {
		entry.ID = created[0].ID
		if !created[0].SubmittedAt.IsZero() {
			entry.SubmittedAt = created[0].SubmittedAt
		}
	}
	r.logger.Debug("log stored", zap.Int64("log_id", entry.ID), zap.Int("items", entry.TotalSelected))
	return entry, nil
}

// UpdateItems rewrites only the selected_items column of a log.
func (r *LogRepository) UpdateItems(ctx context.Context, id int64, items []models.LoggedItem) error {
	fields := map[string]any{"selected_items": items}
	if err := r.client.Update(ctx, r.table, fields, id); err != nil {
		return writeError(fmt.Sprintf("update log %d", id), err)
	}
	return nil
}

// Delete removes the log with the given id.
func (r *LogRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, r.table, id); err != nil {
		return writeError(fmt.Sprintf("delete log %d", id), err)
	}
	return nil
}
