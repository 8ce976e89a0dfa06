package control_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mystylekpop/snsbot/internal/control"
	"github.com/mystylekpop/snsbot/internal/storage"
)

func TestPauseResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := control.New(storage.NewMemoryStore())

	require.False(t, c.IsPaused())

	c.Pause(ctx)
	require.True(t, c.IsPaused())

	c.Resume(ctx)
	require.False(t, c.IsPaused())
}

func TestRestoreSurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	first := control.New(store)
	first.Pause(ctx)

	second := control.New(store)
	require.False(t, second.IsPaused())
	require.NoError(t, second.Restore(ctx))
	require.True(t, second.IsPaused())

	second.Resume(ctx)

	third := control.New(store)
	require.NoError(t, third.Restore(ctx))
	require.False(t, third.IsPaused())
}

func TestRestoreWithEmptyStore(t *testing.T) {
	t.Parallel()
	c := control.New(storage.NewMemoryStore())
	require.NoError(t, c.Restore(context.Background()))
	require.False(t, c.IsPaused())
}
