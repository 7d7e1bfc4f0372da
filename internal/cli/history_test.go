package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/predictupload/internal/history"
)

type fakeHistory struct {
	entries []history.Entry
	err     error
	gotPID  string
}

func (f *fakeHistory) List(_ context.Context, projectID string) ([]history.Entry, error) {
	f.gotPID = projectID
	return f.entries, f.err
}

func TestPrintHistory(t *testing.T) {
	h := &fakeHistory{entries: []history.Entry{{
		ProjectID: "proj",
		Version:   4,
		Prefix:    "proj_predict/v4/",
		CreatedAt: time.Now(),
		Files:     []history.File{{Name: "a.png"}, {Name: "b.png"}},
	}}}
	var out bytes.Buffer

	require.NoError(t, printHistory(context.Background(), h, "proj", &out))
	assert.Equal(t, "proj", h.gotPID)
	assert.Contains(t, out.String(), "PREFIX")
	assert.Contains(t, out.String(), "proj_predict/v4/")
}

func TestPrintHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printHistory(context.Background(), &fakeHistory{}, "", &out))
	assert.Equal(t, "No uploads recorded.\n", out.String())
}

func TestPrintHistory_Error(t *testing.T) {
	err := printHistory(context.Background(), &fakeHistory{err: errors.New("db locked")}, "", &bytes.Buffer{})
	require.Error(t, err)
}
