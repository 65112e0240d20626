// Package cache persists the reconciled equipment list on the device.
//
// The list is stored as one JSON array under a single key. Reads repair
// corrupt content instead of failing, and change detection ignores element
// order so that regrouping items for display never counts as a change.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/notify"
	"github.com/brick/gearlist/internal/reconcile"
	"github.com/brick/gearlist/internal/repository/kv"
)

// DefaultKey is the well-known key of the cache envelope.
const DefaultKey = "equipment-checklist"

// ErrCacheUnavailable indicates the device storage rejected a read or write.
var ErrCacheUnavailable = errors.New("equipment cache unavailable")

const (
	msgUpdated     = "Equipment list updated"
	msgWriteFailed = "Could not save the equipment list on this device. Changes are kept for this session only."
	msgReadFailed  = "Could not read the equipment list stored on this device."
	emptyEnvelope  = "[]"
)

// Store reads and writes the cache envelope through a kv.Store.
type Store struct {
	kv       kv.Store
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewStore wires a cache store. A nil notifier discards notices.
func NewStore(store kv.Store, notifier notify.Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Store{kv: store, notifier: notifier, logger: logger}
}

// Read returns the stored list. Missing content is an empty list; content
// that does not parse is logged, replaced by an empty list and reported as
// empty. A storage failure is logged, notified and returned wrapping
// ErrCacheUnavailable, so callers can tell "empty" from "unreadable".
func (s *Store) Read(ctx context.Context, key string) ([]models.EquipmentRecord, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Error("failed to read equipment cache", zap.String("key", key), zap.Error(err))
		s.notifier.Notify(ctx, notify.LevelError, msgReadFailed)
		return []models.EquipmentRecord{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []models.EquipmentRecord{}, nil
	}

	var records []models.EquipmentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Error("invalid equipment cache, resetting", zap.String("key", key), zap.Error(err))
		if err := s.kv.Set(ctx, key, []byte(emptyEnvelope)); err != nil {
			s.logger.Warn("failed to reset equipment cache", zap.String("key", key), zap.Error(err))
		}
		return []models.EquipmentRecord{}, nil
	}
	if records == nil {
		records = []models.EquipmentRecord{}
	}
	return records, nil
}

// Write serializes records and stores them verbatim under key.
func (s *Store) Write(ctx context.Context, key string, records []models.EquipmentRecord) error {
	if records == nil {
		records = []models.EquipmentRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode equipment cache: %w", err)
	}

	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.logger.Error("failed to write equipment cache", zap.String("key", key), zap.Error(err))
		s.notifier.Notify(ctx, notify.LevelError, msgWriteFailed)
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}

// HasChanged reports whether candidate differs from the stored list by
// content, regardless of element order. An unreadable list counts as changed.
func (s *Store) HasChanged(ctx context.Context, key string, candidate []models.EquipmentRecord) bool {
	stored, err := s.Read(ctx, key)
	if err != nil {
		return true
	}
	return !sameContent(stored, candidate)
}

// Sync writes candidate when it differs from the stored list and reports
// whether it did. The "list updated" notice is only raised when a previous,
// non-empty list existed. Nothing is written when the stored list cannot be
// read.
func (s *Store) Sync(ctx context.Context, key string, candidate []models.EquipmentRecord) (bool, error) {
	previous, err := s.Read(ctx, key)
	if err != nil {
		return false, err
	}
	if sameContent(previous, candidate) {
		return false, nil
	}

	if err := s.Write(ctx, key, candidate); err != nil {
		return false, err
	}

	if len(previous) > 0 {
		s.notifier.Notify(ctx, notify.LevelInfo, msgUpdated)
	}
	s.logger.Debug("equipment cache synced", zap.String("key", key), zap.Int("items", len(candidate)))
	return true, nil
}

func sameContent(a, b []models.EquipmentRecord) bool {
	ca, errA := canonical(a)
	cb, errB := canonical(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

func canonical(records []models.EquipmentRecord) ([]byte, error) {
	sorted := make([]models.EquipmentRecord, len(records))
	copy(sorted, records)
	reconcile.SortByID(sorted)
	return json.Marshal(sorted)
}
