package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StagedFile is a file selected for upload but not yet transmitted.
// Its bytes are only reached through Open.
type StagedFile struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader over the file contents.
func (f *StagedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("staged file %q has no byte source", f.Name)
	}
	return f.open()
}

// ReadAll returns the full contents of the file.
func (f *StagedFile) ReadAll() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// NewStagedFileFromBytes keeps data in memory under name.
func NewStagedFileFromBytes(name string, data []byte) *StagedFile {
	return &StagedFile{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewStagedFileFromPath stats path and stages it under its base name.
func NewStagedFileFromPath(path string) (*StagedFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &StagedFile{
		Name: filepath.Base(path),
		Size: fi.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
