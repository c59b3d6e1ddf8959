package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileSink_Deliver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := NewFileSink(dir, zap.NewNop())

	path, err := sink.Deliver(context.Background(), "Acme Corp.pdf", []byte("%PDF-1"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Acme Corp.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_Overwrites(t *testing.T) {
	sink := NewFileSink(t.TempDir(), zap.NewNop())
	_, err := sink.Deliver(context.Background(), "a.pdf", []byte("old"))
	require.NoError(t, err)
	path, err := sink.Deliver(context.Background(), "a.pdf", []byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileSink_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	path, err := NewFileSink(dir, zap.NewNop()).Deliver(context.Background(), "../../escape.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.pdf"), path)
}

func TestFileSink_InvalidName(t *testing.T) {
	_, err := NewFileSink(t.TempDir(), zap.NewNop()).Deliver(context.Background(), "..", []byte("x"))
	require.ErrorIs(t, err, ErrInvalidFileName)
}

func TestFileSink_UnwritableDirLeavesNothing(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	_, err := NewFileSink(filepath.Join(blocker, "exports"), zap.NewNop()).Deliver(context.Background(), "a.pdf", []byte("x"))
	require.Error(t, err)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSink(dir, zap.NewNop()).Deliver(ctx, "a.pdf", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
