package checklist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brick/gearlist/internal/document"
	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/notify"
)

// LogWriter stores exported checklists in the remote history table.
type LogWriter interface {
	Insert(ctx context.Context, entry models.LogEntry) (models.LogEntry, error)
}

// DocumentBuilder renders a checklist document.
type DocumentBuilder interface {
	Build(req models.DocumentRequest) (models.Document, error)
}

// LogArchive keeps a copy of every exported log.
type LogArchive interface {
	ArchiveLog(ctx context.Context, entry models.LogEntry) error
}

// LogSheet appends a summary row per exported log.
type LogSheet interface {
	AppendLog(ctx context.Context, entry models.LogEntry) error
}

// DocumentArchive stores generated documents.
type DocumentArchive interface {
	StoreDocument(ctx context.Context, doc models.Document) error
}

// Export finalises the checklist: the selected items are logged to history
// and rendered as a document. A failed history write does not prevent the
// document; the optional sinks are best effort.
func (s *Service) Export(ctx context.Context, submittedBy, jobLabel string) (models.Document, error) {
	submittedBy = strings.TrimSpace(submittedBy)
	jobLabel = strings.TrimSpace(jobLabel)
	if submittedBy == "" || jobLabel == "" {
		return models.Document{}, ErrMissingMetadata
	}

	st := s.state
	st.mu.Lock()
	s.ensureLoaded(ctx)
	selected := st.selected()
	total := len(st.items)
	st.mu.Unlock()

	if len(selected) == 0 {
		return models.Document{}, ErrNothingSelected
	}

	now := s.now()
	entry := models.NewLogEntry(submittedBy, jobLabel, selected, total)
	entry.SubmittedAt = now.UTC()
	entry = s.saveHistory(ctx, entry)

	doc, err := s.deps.Documents.Build(models.DocumentRequest{
		SubmittedBy:   submittedBy,
		JobLabel:      jobLabel,
		Items:         selected,
		TotalSelected: len(selected),
		FileName:      document.ExportFileName(now),
	})
	if err != nil {
		return models.Document{}, fmt.Errorf("generate checklist document: %w", err)
	}

	s.publish(ctx, entry, doc)
	s.logger.Info("checklist exported",
		zap.Int64("log_id", entry.ID),
		zap.String("job", jobLabel),
		zap.Int("selected", len(selected)),
		zap.String("file", doc.FileName),
	)
	return doc, nil
}

func (s *Service) saveHistory(ctx context.Context, entry models.LogEntry) models.LogEntry {
	if s.deps.Logs == nil {
		s.notifier.Notify(ctx, notify.LevelInfo, msgHistoryOffline)
		return entry
	}
	stored, err := s.deps.Logs.Insert(ctx, entry)
	if err != nil {
		s.logger.Error("failed to save checklist log", zap.Error(err))
		s.notifier.Notify(ctx, notify.LevelError, msgHistoryFailed)
		return entry
	}
	return stored
}

type sink struct {
	name string
	run  func(ctx context.Context) error
}

// publish fans the export out to the configured sinks and waits for them.
func (s *Service) publish(ctx context.Context, entry models.LogEntry, doc models.Document) {
	var sinks []sink
	if s.deps.Archive != nil {
		sinks = append(sinks, sink{"archive", func(ctx context.Context) error { return s.deps.Archive.ArchiveLog(ctx, entry) }})
	}
	if s.deps.Sheet != nil {
		sinks = append(sinks, sink{"sheet", func(ctx context.Context) error { return s.deps.Sheet.AppendLog(ctx, entry) }})
	}
	if s.deps.DocumentStore != nil {
		sinks = append(sinks, sink{"documents", func(ctx context.Context) error { return s.deps.DocumentStore.StoreDocument(ctx, doc) }})
	}

	var g errgroup.Group
	for _, sk := range sinks {
		g.Go(func() error {
			if err := sk.run(ctx); err != nil {
				s.logger.Warn("export sink failed", zap.String("sink", sk.name), zap.Error(err))
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Debug("export published with sink failures", zap.Error(err))
	}
}
