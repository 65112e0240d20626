// Package checklist owns the reconciled equipment list: it fetches the
// remote catalog, merges it with the device cache and the bundled baseline,
// and applies user edits with write-through to the cache.
package checklist

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/notify"
	"github.com/brick/gearlist/internal/reconcile"
	"github.com/brick/gearlist/internal/repository/cache"
)

var (
	ErrUnknownEquipment = errors.New("unknown equipment")
	ErrMissingMetadata  = errors.New("submitter and job label are required")
	ErrNothingSelected  = errors.New("no equipment selected")
)

const (
	msgOffline        = "Could not reach the equipment server. Showing the list saved on this device."
	msgHistoryFailed  = "Could not save to history, document generated anyway."
	msgHistoryOffline = "History is not available offline, document generated anyway."
)

// EquipmentSource reads the authoritative catalog.
type EquipmentSource interface {
	List(ctx context.Context) ([]models.EquipmentRecord, error)
}

// Cache persists the reconciled list on the device.
type Cache interface {
	Read(ctx context.Context, key string) ([]models.EquipmentRecord, error)
	Write(ctx context.Context, key string, records []models.EquipmentRecord) error
	Sync(ctx context.Context, key string, candidate []models.EquipmentRecord) (bool, error)
}

// Dependencies groups what the service is wired with. Remote and Logs are
// nil in offline mode; the sinks are optional.
type Dependencies struct {
	Remote    EquipmentSource
	Logs      LogWriter
	Cache     Cache
	CacheKey  string
	Baseline  []models.EquipmentRecord
	Documents DocumentBuilder

	Archive       LogArchive
	Sheet         LogSheet
	DocumentStore DocumentArchive

	Notifier notify.Notifier
	Now      func() time.Time
}

// Service is the sync orchestrator and the owner of the reconciliation state.
type Service struct {
	deps     Dependencies
	key      string
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger

	seq   atomic.Uint64
	state *ReconciliationState
}

// NewService wires the orchestrator.
func NewService(deps Dependencies, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	key := deps.CacheKey
	if key == "" {
		key = cache.DefaultKey
	}

	return &Service{
		deps:     deps,
		key:      key,
		notifier: notifier,
		now:      now,
		logger:   logger,
		state:    &ReconciliationState{},
	}
}

// Offline reports whether the service runs without a remote store.
func (s *Service) Offline() bool {
	return s.deps.Remote == nil
}

// FetchEquipment fetches the remote catalog, merges it with the cache and the
// baseline, persists the result unconditionally and returns it. A remote
// failure degrades to baseline plus cache and is reported as a notice.
func (s *Service) FetchEquipment(ctx context.Context) []models.EquipmentRecord {
	items, _ := s.fetch(ctx, func(merged []models.EquipmentRecord) (bool, error) {
		if err := s.deps.Cache.Write(ctx, s.key, merged); err != nil {
			return false, err
		}
		return true, nil
	})
	return items
}

// Refresh is the lighter periodic variant: the merged list is only written
// when its content differs from the cache. It reports whether it wrote.
func (s *Service) Refresh(ctx context.Context) bool {
	_, written := s.fetch(ctx, func(merged []models.EquipmentRecord) (bool, error) {
		return s.deps.Cache.Sync(ctx, s.key, merged)
	})
	return written
}

// fetch runs one reconciliation cycle. The remote call happens outside the
// lock; the cache is read under it, right before merging, so edits made while
// the call was in flight are part of the merge. A cycle that started before
// the last committed one is discarded.
//
// When the cache holds less than memory (a failed edit write) or cannot be
// read, the in-memory list is the local source. An unreadable cache is never
// overwritten, since its content is unknown.
func (s *Service) fetch(ctx context.Context, persist func([]models.EquipmentRecord) (bool, error)) ([]models.EquipmentRecord, bool) {
	seq := s.seq.Add(1)
	remote := s.fetchRemote(ctx)

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	if seq <= st.committed {
		s.logger.Debug("discarding stale equipment fetch",
			zap.Uint64("seq", seq),
			zap.Uint64("committed", st.committed),
		)
		return st.snapshot(), false
	}

	local, readErr := s.deps.Cache.Read(ctx, s.key)
	if readErr != nil || st.dirty {
		local = st.snapshot()
	}
	s.warnDuplicates("local", local)
	merged := reconcile.Merge(s.deps.Baseline, local, remote)

	written := false
	if readErr != nil {
		s.logger.Warn("equipment cache unreadable, keeping it untouched", zap.Error(readErr))
	} else {
		var err error
		written, err = persist(merged)
		if err != nil {
			s.logger.Warn("reconciled list kept in memory only", zap.Error(err))
		}
		st.dirty = err != nil
	}
	st.items = merged
	st.loaded = true
	st.committed = seq

	s.logger.Info("equipment reconciled",
		zap.Uint64("seq", seq),
		zap.Int("baseline", len(s.deps.Baseline)),
		zap.Int("local", len(local)),
		zap.Int("remote", len(remote)),
		zap.Int("merged", len(merged)),
	)
	return st.snapshot(), written
}

func (s *Service) fetchRemote(ctx context.Context) []models.EquipmentRecord {
	if s.deps.Remote == nil {
		return nil
	}
	records, err := s.deps.Remote.List(ctx)
	if err != nil {
		s.logger.Error("failed to fetch remote equipment, using local data", zap.Error(err))
		s.notifier.Notify(ctx, notify.LevelError, msgOffline)
		return nil
	}
	s.warnDuplicates("remote", records)
	return records
}

func (s *Service) warnDuplicates(source string, records []models.EquipmentRecord) {
	if dups := reconcile.Duplicates(records); len(dups) > 0 {
		s.logger.Warn("duplicate equipment ids, keeping last occurrence",
			zap.String("source", source),
			zap.Int64s("ids", dups),
		)
	}
}

// ensureLoaded seeds the state from cache and baseline when no fetch has
// committed yet, so edits work before the first round-trip. Caller holds mu.
func (s *Service) ensureLoaded(ctx context.Context) {
	st := s.state
	if st.loaded {
		return
	}
	// A read failure is already logged and notified; the baseline stands in.
	local, _ := s.deps.Cache.Read(ctx, s.key)
	st.items = reconcile.Merge(s.deps.Baseline, local, nil)
	st.loaded = true
}

// persistLocked writes the current list through to the cache. Caller holds mu.
func (s *Service) persistLocked(ctx context.Context) {
	if err := s.deps.Cache.Write(ctx, s.key, s.state.items); err != nil {
		s.logger.Warn("checklist edit kept in memory only", zap.Error(err))
		s.state.dirty = true
		return
	}
	s.state.dirty = false
}

// Items returns the current reconciled list.
func (s *Service) Items(ctx context.Context) []models.EquipmentRecord {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ensureLoaded(ctx)
	return st.snapshot()
}

// Progress counts selected items over the whole list.
func (s *Service) Progress(ctx context.Context) models.Progress {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ensureLoaded(ctx)
	return st.progress()
}

// Selected returns the items currently selected.
func (s *Service) Selected(ctx context.Context) []models.EquipmentRecord {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ensureLoaded(ctx)
	return st.selected()
}

// Toggle flips the checkbox of one item and returns it.
func (s *Service) Toggle(ctx context.Context, id int64) (models.EquipmentRecord, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ensureLoaded(ctx)

	i := st.indexOf(id)
	if i < 0 {
		return models.EquipmentRecord{}, ErrUnknownEquipment
	}
	st.items[i].Toggle()
	s.persistLocked(ctx)
	return st.items[i].Clone(), nil
}

// AlterQuantityTaken sets the quantity taken of one item. Values outside
// [0, quantity] leave the item unchanged.
func (s *Service) AlterQuantityTaken(ctx context.Context, id int64, value int) (models.EquipmentRecord, error) {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ensureLoaded(ctx)

	i := st.indexOf(id)
	if i < 0 {
		return models.EquipmentRecord{}, ErrUnknownEquipment
	}
	if st.items[i].SetTaken(value) {
		s.persistLocked(ctx)
	} else {
		s.logger.Debug("quantity out of range, ignored",
			zap.Int64("id", id),
			zap.Int("value", value),
			zap.Int("quantity", st.items[i].Quantity),
		)
	}
	return st.items[i].Clone(), nil
}

// ResetAll returns every item to its baseline defaults.
func (s *Service) ResetAll(ctx context.Context) []models.EquipmentRecord {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ensureLoaded(ctx)

	for i := range st.items {
		st.items[i].Reset()
	}
	s.persistLocked(ctx)
	return st.snapshot()
}
