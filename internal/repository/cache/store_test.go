package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/notify"
	"github.com/brick/gearlist/internal/repository/kv"
)

const key = "equipment-test"

// countingKV wraps a kv.Store, counting writes and optionally failing.
type countingKV struct {
	kv.Store
	sets   int
	setErr error
	getErr error
}

func (c *countingKV) Get(ctx context.Context, k string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.Store.Get(ctx, k)
}

func (c *countingKV) Set(ctx context.Context, k string, v []byte) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	return c.Store.Set(ctx, k, v)
}

func newTestStore(t *testing.T) (*Store, *countingKV, *notify.Inbox, *observer.ObservedLogs) {
	t.Helper()
	backing := &countingKV{Store: kv.NewMemory()}
	inbox := notify.NewInbox(10)
	core, logs := observer.New(zapcore.DebugLevel)
	return NewStore(backing, inbox, zap.New(core)), backing, inbox, logs
}

func seed(t *testing.T, backing *countingKV, raw string) {
	t.Helper()
	require.NoError(t, backing.Store.Set(context.Background(), key, []byte(raw)))
}

func records() []models.EquipmentRecord {
	return []models.EquipmentRecord{
		{ID: 1, Category: "CAMERAS", Description: "Eq1", Quantity: 1, Condition: "GOOD"},
		{ID: 2, Category: "LIGHTS", Description: "Eq2", Quantity: 3, Condition: "GOOD", QuantityTaken: models.IntPtr(2), Selected: models.BoolPtr(true)},
	}
}

func reversed(in []models.EquipmentRecord) []models.EquipmentRecord {
	out := make([]models.EquipmentRecord, len(in))
	for i := range in {
		out[len(in)-1-i] = in[i]
	}
	return out
}

func TestRead_MissingKeyIsEmpty(t *testing.T) {
	s, backing, _, logs := newTestStore(t)

	got, err := s.Read(context.Background(), key)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, backing.sets)
	assert.Zero(t, logs.Len())
}

func TestRead_CorruptContentIsRepaired(t *testing.T) {
	s, backing, _, logs := newTestStore(t)
	seed(t, backing, "not json")

	got, err := s.Read(context.Background(), key)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := backing.Store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	// The repaired value parses, so a second read is silent.
	_, err = s.Read(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRead_StorageFailureNotifies(t *testing.T) {
	s, backing, inbox, _ := newTestStore(t)
	backing.getErr = errors.New("storage blocked")

	got, err := s.Read(context.Background(), key)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.Empty(t, got)
	assert.Zero(t, backing.sets, "an unreadable list is not repaired")
	notices := inbox.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.LevelError, notices[0].Level)
}

func TestWrite_RoundTrip(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, key, records()))
	got, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, records(), got)
}

func TestWrite_NilIsEmptyArray(t *testing.T) {
	s, backing, _, _ := newTestStore(t)

	require.NoError(t, s.Write(context.Background(), key, nil))
	raw, _ := backing.Store.Get(context.Background(), key)
	assert.Equal(t, "[]", string(raw))
}

func TestWrite_FailureIsWrappedAndNotified(t *testing.T) {
	s, backing, inbox, logs := newTestStore(t)
	backing.setErr = errors.New("quota exceeded")

	err := s.Write(context.Background(), key, records())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.Len(t, inbox.Drain(), 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to write equipment cache").Len())
}

func TestHasChanged_IgnoresOrder(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, key, records()))

	assert.False(t, s.HasChanged(ctx, key, records()))
	assert.False(t, s.HasChanged(ctx, key, reversed(records())))
	assert.Equal(t, s.HasChanged(ctx, key, records()), s.HasChanged(ctx, key, reversed(records())))
}

func TestHasChanged_DetectsContent(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, key, records()))

	changed := records()
	changed[1].SetTaken(3)
	assert.True(t, s.HasChanged(ctx, key, changed))
	assert.True(t, s.HasChanged(ctx, key, records()[:1]))
}

func TestSync_ReorderDoesNotWrite(t *testing.T) {
	s, backing, inbox, _ := newTestStore(t)
	raw, err := json.Marshal(records())
	require.NoError(t, err)
	seed(t, backing, string(raw))

	written, err := s.Sync(context.Background(), key, reversed(records()))
	require.NoError(t, err)
	assert.False(t, written)
	assert.Zero(t, backing.sets)
	assert.Empty(t, inbox.Drain())
}

func TestSync_FirstWriteIsSilent(t *testing.T) {
	s, backing, inbox, _ := newTestStore(t)
	ctx := context.Background()

	assert.True(t, s.HasChanged(ctx, key, records()))
	written, err := s.Sync(ctx, key, records())
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 1, backing.sets)
	assert.Empty(t, inbox.Drain())
}

func TestSync_ChangeNotifiesWhenPreviousExisted(t *testing.T) {
	s, _, inbox, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, key, records()[:1]))

	written, err := s.Sync(ctx, key, records())
	require.NoError(t, err)
	assert.True(t, written)

	notices := inbox.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Equipment list updated", notices[0].Message)
}

func TestSync_WriteFailureIsNonFatal(t *testing.T) {
	s, backing, inbox, _ := newTestStore(t)
	backing.setErr = errors.New("read-only")

	written, err := s.Sync(context.Background(), key, records())
	assert.False(t, written)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.Len(t, inbox.Drain(), 1)
}

func TestSync_UnreadableStoreIsLeftAlone(t *testing.T) {
	s, backing, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, key, records()))
	backing.sets = 0
	backing.getErr = errors.New("disk busy")

	assert.True(t, s.HasChanged(ctx, key, records()))
	written, err := s.Sync(ctx, key, records()[:1])
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.False(t, written)
	assert.Zero(t, backing.sets)
}
