package notes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant_notes.json")
	s := NewJSONStore(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestJSONStore_AddAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "buy milk")
	require.NoError(t, err)
	_, err = s.Add(ctx, "call the plumber")
	require.NoError(t, err)

	notes, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "buy milk", notes[0].Text)
	assert.Equal(t, "call the plumber", notes[1].Text)
}

func TestJSONStore_FileFormat(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add(context.Background(), "remember the keys")
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw []map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []map[string]string{
		{"timestamp": "2026-10-19T09:30:00Z", "note": "remember the keys"},
	}, raw)
	assert.Contains(t, string(data), "\n  {")
}

func TestJSONStore_ListMissingFile(t *testing.T) {
	notes, err := newTestStore(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestJSONStore_CorruptFileIsMovedAside(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	_, err := s.Add(context.Background(), "fresh start")
	require.NoError(t, err)

	notes, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "fresh start", notes[0].Text)

	backup, err := os.ReadFile(s.Path() + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
}
