// Package history serves past exports: listing, checking items back in,
// regenerating documents and deleting entries.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/auth"
	"github.com/brick/gearlist/internal/document"
	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/repository/remote"
)

// ErrNoReturns is returned by CheckIn when no marks are given.
var ErrNoReturns = errors.New("no items to check in")

// LogStore is the persistence the history needs.
type LogStore interface {
	List(ctx context.Context) ([]models.LogEntry, error)
	Get(ctx context.Context, id int64) (models.LogEntry, error)
	UpdateItems(ctx context.Context, id int64, items []models.LoggedItem) error
	Delete(ctx context.Context, id int64) error
}

// DocumentBuilder renders a checklist document.
type DocumentBuilder interface {
	Build(req models.DocumentRequest) (models.Document, error)
}

// Verifier checks admin access tokens.
type Verifier interface {
	Verify(token auth.AccessToken) error
}

// Window bounds a listing by calendar day. Zero bounds are open; To includes
// the whole day.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Service implements the history operations.
type Service struct {
	logs      LogStore
	documents DocumentBuilder
	gate      Verifier
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires the history. A nil store means offline mode, in which
// every operation fails with remote.ErrUnavailable.
func NewService(logs LogStore, documents DocumentBuilder, gate Verifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logs: logs, documents: documents, gate: gate, now: time.Now, logger: logger}
}

func (s *Service) available() error {
	if s.logs == nil {
		return fmt.Errorf("history requires the remote store: %w", remote.ErrUnavailable)
	}
	return nil
}

// List returns logs newest first, restricted to window.
func (s *Service) List(ctx context.Context, window Window) ([]models.LogEntry, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	entries, err := s.logs.List(ctx)
	if err != nil {
		s.logger.Error("failed to load history", zap.Error(err))
		return nil, err
	}

	filtered := make([]models.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if window.Contains(entry.SubmittedAt) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// Get returns one log.
func (s *Service) Get(ctx context.Context, id int64) (models.LogEntry, error) {
	if err := s.available(); err != nil {
		return models.LogEntry{}, err
	}
	return s.logs.Get(ctx, id)
}

// CheckIn marks items of a log as returned. Only the item list is written
// back; marks for ids not in the log are ignored.
func (s *Service) CheckIn(ctx context.Context, id int64, marks []models.ReturnMark) (models.LogEntry, error) {
	if len(marks) == 0 {
		return models.LogEntry{}, ErrNoReturns
	}
	entry, err := s.Get(ctx, id)
	if err != nil {
		return models.LogEntry{}, err
	}

	matched := entry.ApplyReturns(marks)
	if matched == 0 {
		s.logger.Info("check-in matched no items", zap.Int64("log_id", id), zap.Int("marks", len(marks)))
		return entry, nil
	}
	if err := s.logs.UpdateItems(ctx, id, entry.SelectedItems); err != nil {
		s.logger.Error("failed to save check-in", zap.Int64("log_id", id), zap.Error(err))
		return models.LogEntry{}, err
	}

	s.logger.Info("items checked in", zap.Int64("log_id", id), zap.Int("matched", matched))
	return entry, nil
}

// Regenerate rebuilds the document of a past export, stamped with its
// original submission time.
func (s *Service) Regenerate(ctx context.Context, id int64) (models.Document, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return models.Document{}, err
	}

	submittedAt := entry.SubmittedAt
	req := models.DocumentRequest{
		SubmittedBy:   entry.SubmittedBy,
		JobLabel:      entry.JobLabel,
		Items:         entry.Records(),
		TotalSelected: entry.TotalSelected,
		FileName:      document.RegeneratedFileName(entry.SubmittedBy, s.now()),
	}
	if !submittedAt.IsZero() {
		req.OriginalTimestamp = &submittedAt
	}

	doc, err := s.documents.Build(req)
	if err != nil {
		return models.Document{}, fmt.Errorf("regenerate document for log %d: %w", id, err)
	}
	return doc, nil
}

// Delete removes a log. It requires an admin token.
func (s *Service) Delete(ctx context.Context, token auth.AccessToken, id int64) error {
	if err := s.gate.Verify(token); err != nil {
		return err
	}
	if err := s.available(); err != nil {
		return err
	}
	if err := s.logs.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete log", zap.Int64("log_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("log deleted", zap.Int64("log_id", id))
	return nil
}
