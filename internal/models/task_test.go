package models

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskType(t *testing.T) {
	tests := []struct {
		in      string
		want    TaskKind
		wantErr bool
	}{
		{in: "image_classification", want: TaskImage},
		{in: "Object_Detection", want: TaskImage},
		{in: "tabular_regression", want: TaskTabular},
		{in: " text_classification ", want: TaskTabular},
		{in: "audio", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTaskType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, TaskUnknown, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStagedFile_FromBytes_ReadsRepeatedly(t *testing.T) {
	f := NewStagedFileFromBytes("a.csv", []byte("x,y\n1,2\n"))
	assert.Equal(t, int64(8), f.Size)

	for i := 0; i < 2; i++ {
		b, err := f.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "x,y\n1,2\n", string(b))
	}
}

func TestStagedFile_FromPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cat.JPG")
	require.NoError(t, os.WriteFile(p, []byte("jpeg"), 0o600))

	f, err := NewStagedFileFromPath(p)
	require.NoError(t, err)
	assert.Equal(t, "cat.JPG", f.Name)
	assert.Equal(t, int64(4), f.Size)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(b))

	_, err = NewStagedFileFromPath(dir)
	require.Error(t, err)

	_, err = NewStagedFileFromPath(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

func TestStagedFile_NoSource(t *testing.T) {
	f := &StagedFile{Name: "x"}
	_, err := f.Open()
	require.Error(t, err)
}
