package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/foxlist/internal/models"
)

func TestFileStore_InitWithoutBlobStartsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, s.Init(context.Background()))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	ctx := context.Background()

	s := NewFileStore(path)
	require.NoError(t, s.Init(ctx))

	created, err := s.Create(ctx, CreateParams{
		Title:       "persistente",
		Description: "sobrevive ao reinício",
		Priority:    models.PriorityHigh,
		Deadline:    "2024-06-10",
		OwnerEmail:  owner("a@x.com"),
	})
	require.NoError(t, err)

	reopened := NewFileStore(path)
	require.NoError(t, reopened.Init(ctx))

	got, err := reopened.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persistente", got.Title)
	assert.Equal(t, "sobrevive ao reinício", got.Description)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, "2024-06-10", got.Deadline)
	assert.Equal(t, "a@x.com", got.Owner())
}

func TestFileStore_InitTwiceDoesNotDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	ctx := context.Background()

	s := NewFileStore(path)
	require.NoError(t, s.Init(ctx))

	_, err := s.Create(ctx, CreateParams{Title: "uma", Priority: models.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, s.Init(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFileStore_BlobUsesWireFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	ctx := context.Background()

	s := NewFileStore(path)
	require.NoError(t, s.Init(ctx))

	_, err := s.Create(ctx, CreateParams{Title: "fio", Priority: models.PriorityMedium})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)

	// The persisted shape is shared with the SQLite schema and with
	// data written by earlier releases.
	assert.Equal(t, "media", raw[0]["status"])
	assert.Equal(t, "Sem prazo", raw[0]["time"])
	assert.Nil(t, raw[0]["user_email"])
	assert.Contains(t, raw[0], "created_at")
	assert.Contains(t, raw[0], "updated_at")
}

func TestFileStore_EveryMutationRewritesBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	ctx := context.Background()

	s := NewFileStore(path)
	require.NoError(t, s.Init(ctx))

	created, err := s.Create(ctx, CreateParams{Title: "antes", Priority: models.PriorityLow})
	require.NoError(t, err)

	require.NoError(t, s.ToggleCompletion(ctx, created.ID, true))

	// The blob on disk already reflects the toggle; a fresh store
	// sees it without any flush step.
	fresh := NewFileStore(path)
	require.NoError(t, fresh.Init(ctx))
	got, err := fresh.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestFileStore_MalformedBlobFailsInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o660))

	s := NewFileStore(path)
	assert.Error(t, s.Init(context.Background()))
}

func TestFileStore_NextIDAfterReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	ctx := context.Background()

	s := NewFileStore(path)
	require.NoError(t, s.Init(ctx))

	first, err := s.Create(ctx, CreateParams{Title: "um", Priority: models.PriorityLow})
	require.NoError(t, err)
	second, err := s.Create(ctx, CreateParams{Title: "dois", Priority: models.PriorityLow})
	require.NoError(t, err)
	require.Equal(t, first.ID+1, second.ID)

	reopened := NewFileStore(path)
	require.NoError(t, reopened.Init(ctx))
	third, err := reopened.Create(ctx, CreateParams{Title: "três", Priority: models.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, second.ID+1, third.ID)
}
