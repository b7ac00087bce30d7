package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSlotEmptyWhenMissing(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "records.json"))
	require.NoError(t, err)

	payload, ok, err := slot.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestFileSlotStoreLoadRoundTrip(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "records.json"))
	require.NoError(t, err)

	want := []byte(`[{"id":"x"}]`)
	require.NoError(t, slot.Store(context.Background(), want))

	payload, ok, err := slot.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, payload)
}

func TestFileSlotStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	slot, err := NewFileSlot(path)
	require.NoError(t, err)

	require.NoError(t, slot.Store(context.Background(), []byte(`["old"]`)))
	require.NoError(t, slot.Store(context.Background(), []byte(`["new"]`)))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(onDisk))
}

func TestFileSlotCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "records.json")
	_, err := NewFileSlot(path)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
