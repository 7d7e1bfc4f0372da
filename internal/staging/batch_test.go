package staging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/models"
)

func TestBatch_SizeGate(t *testing.T) {
	b := NewBatch(0)

	tooBig := &models.StagedFile{Name: "huge.png", Size: common.MaxStagedFileSize}
	err := b.Add(tooBig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFileTooLarge))
	assert.Equal(t, 0, b.Len())

	justUnder := &models.StagedFile{Name: "ok.png", Size: common.MaxStagedFileSize - 1}
	require.NoError(t, b.Add(justUnder))
	assert.Equal(t, 1, b.Len())
}

func TestBatch_RejectsDuplicateNames(t *testing.T) {
	b := NewBatch(100)
	require.NoError(t, b.Add(models.NewStagedFileFromBytes("a.png", []byte("1"))))

	err := b.Add(models.NewStagedFileFromBytes("a.png", []byte("2")))
	assert.ErrorIs(t, err, common.ErrDuplicateFile)
}

func TestBatch_RemoveClearReplace(t *testing.T) {
	b := NewBatch(100)
	for _, n := range []string{"a.png", "b.png", "c.png"} {
		require.NoError(t, b.Add(models.NewStagedFileFromBytes(n, []byte("x"))))
	}

	assert.True(t, b.Remove("b.png"))
	assert.False(t, b.Remove("b.png"))

	names := []string{}
	for _, f := range b.Files() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.png", "c.png"}, names)

	b.Replace([]*models.StagedFile{models.NewStagedFileFromBytes("d.csv", []byte("x"))})
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "d.csv", b.Files()[0].Name)

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Files())
}

func TestBatch_FilesIsACopy(t *testing.T) {
	b := NewBatch(100)
	require.NoError(t, b.Add(models.NewStagedFileFromBytes("a.png", []byte("x"))))

	fs := b.Files()
	fs[0] = nil
	assert.NotNil(t, b.Files()[0])
}
