package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/predictupload/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDSN(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func completed(project string, version int, at time.Time, names ...string) models.Completed {
	c := models.Completed{
		ProjectID: project,
		Version:   version,
		Prefix:    fmt.Sprintf("%s_predict/v%d/", project, version),
		Keys:      map[string]string{},
		At:        at,
	}
	for _, n := range names {
		c.Files = append(c.Files, models.NewStagedFileFromBytes(n, []byte(n)))
		c.Keys[n] = c.Prefix + n
	}
	return c
}

func TestRecordAndList(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 12, 0, 0, 123, time.UTC)

	id, err := s.Record(ctx, completed("proj", 3, at, "a.png", "b.jpg"))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.List(ctx, "proj")
	require.NoError(t, err)

	want := []Entry{{
		ID:        id,
		ProjectID: "proj",
		Version:   3,
		Prefix:    "proj_predict/v3/",
		CreatedAt: at,
		Files: []File{
			{Name: "a.png", Key: "proj_predict/v3/a.png", Size: 5},
			{Name: "b.jpg", Key: "proj_predict/v3/b.jpg", Size: 5},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestList_NewestFirstAndFilteredByProject(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()
	at := time.Now().UTC()

	_, err := s.Record(ctx, completed("proj", 1, at, "a.png"))
	require.NoError(t, err)
	_, err = s.Record(ctx, completed("other", 1, at, "x.csv"))
	require.NoError(t, err)
	_, err = s.Record(ctx, completed("proj", 2, at, "b.png"))
	require.NoError(t, err)

	got, err := s.List(ctx, "proj")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Version)
	assert.Equal(t, 1, got[1].Version)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecord_KeyFallsBackToPrefix(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	c := completed("proj", 1, time.Time{}, "a.png")
	c.Keys = nil

	_, err := s.Record(ctx, c)
	require.NoError(t, err)

	got, err := s.List(ctx, "proj")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "proj_predict/v1/a.png", got[0].Files[0].Key)
	assert.False(t, got[0].CreatedAt.IsZero(), "zero completion time is replaced by now")
}

func TestList_Empty(t *testing.T) {
	s := newMemStore(t)

	got, err := s.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_CreatesFileAndReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Record(ctx, completed("proj", 1, time.Now(), "a.png"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.List(ctx, "proj")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecord_CancelledContext(t *testing.T) {
	s := newMemStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Record(ctx, completed("proj", 1, time.Now(), "a.png"))
	require.Error(t, err)
}
