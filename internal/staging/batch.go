// Package staging holds the set of files a user has selected but not yet
// uploaded. A Batch is owned by a single orchestrator and is not safe for
// concurrent use on its own.
package staging

import (
	"fmt"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/models"
)

type Batch struct {
	maxSize int64
	files   []*models.StagedFile
}

// NewBatch returns an empty batch that rejects files of maxSize bytes or more.
// A non-positive maxSize selects common.MaxStagedFileSize.
func NewBatch(maxSize int64) *Batch {
	if maxSize <= 0 {
		maxSize = common.MaxStagedFileSize
	}
	return &Batch{maxSize: maxSize}
}

// Add appends f after the size gate. Names are unique within a batch since
// they become object key basenames.
func (b *Batch) Add(f *models.StagedFile) error {
	if f.Size >= b.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", common.ErrFileTooLarge, f.Name, f.Size, b.maxSize)
	}
	for _, existing := range b.files {
		if existing.Name == f.Name {
			return fmt.Errorf("%w: %s", common.ErrDuplicateFile, f.Name)
		}
	}
	b.files = append(b.files, f)
	return nil
}

// Remove drops the file called name and reports whether it was present.
func (b *Batch) Remove(name string) bool {
	for i, f := range b.files {
		if f.Name == name {
			b.files = append(b.files[:i:i], b.files[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the whole content, e.g. after a spreadsheet was converted.
func (b *Batch) Replace(files []*models.StagedFile) {
	b.files = append([]*models.StagedFile(nil), files...)
}

func (b *Batch) Clear() {
	b.files = nil
}

// Files returns a copy of the staged files in insertion order.
func (b *Batch) Files() []*models.StagedFile {
	return append([]*models.StagedFile(nil), b.files...)
}

func (b *Batch) Len() int {
	return len(b.files)
}
