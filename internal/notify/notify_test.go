package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_DrainEmpties(t *testing.T) {
	in := NewInbox(10)
	ctx := context.Background()

	assert.Empty(t, in.Drain())

	in.Notify(ctx, LevelInfo, "equipment list updated")
	in.Notify(ctx, LevelError, "offline")

	got := in.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "equipment list updated", got[0].Message)
	assert.Equal(t, LevelError, got[1].Level)
	assert.Empty(t, in.Drain())
}

func TestInbox_DropsOldest(t *testing.T) {
	in := NewInbox(2)
	ctx := context.Background()
	in.Notify(ctx, LevelInfo, "a")
	in.Notify(ctx, LevelInfo, "b")
	in.Notify(ctx, LevelInfo, "c")

	got := in.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Message)
	assert.Equal(t, "c", got[1].Message)
}
