package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func TestGet_MissingKey(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSetGetRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "greeting", []byte(`"olá"`)))

	got, err := s.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"olá"`), got)
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestDelete_Idempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMalformedFileFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o660))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}
