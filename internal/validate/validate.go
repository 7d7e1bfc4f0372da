// Package validate checks a staged batch against its task contract and
// produces a models.Verdict. Every failure, including I/O and parse errors,
// is reported through the verdict; nothing here returns an error.
package validate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/predictupload/internal/models"
)

var (
	imageExtensions   = []string{".jpg", ".jpeg", ".png"}
	tabularExtensions = []string{".csv", ".xlsx", ".xls"}
)

// Validate runs the strategy selected by task over files.
//
// The returned slice is the batch to stage: identical to files, except that a
// spreadsheet input is replaced by its in-memory CSV conversion.
func Validate(files []*models.StagedFile, task models.TaskKind, expectedColumns []string) (models.Verdict, []*models.StagedFile) {
	switch task {
	case models.TaskImage:
		return validateImages(files), files
	case models.TaskTabular:
		return validateTabular(files, expectedColumns)
	default:
		return models.Invalid(fmt.Sprintf("unsupported task type: %s", task)), files
	}
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func hasExt(name string, allowed []string) bool {
	e := ext(name)
	for _, a := range allowed {
		if e == a {
			return true
		}
	}
	return false
}

func validateImages(files []*models.StagedFile) models.Verdict {
	if len(files) == 0 {
		return models.Invalid("No files selected")
	}

	for _, f := range files {
		if !hasExt(f.Name, imageExtensions) {
			return models.Invalid(fmt.Sprintf(
				"File %q is not allowed: only %s files can be uploaded for image tasks",
				f.Name, strings.Join(imageExtensions, ", ")))
		}
	}

	return models.Valid(fmt.Sprintf("%d image file(s) ready to upload", len(files)))
}

func validateTabular(files []*models.StagedFile, expected []string) (models.Verdict, []*models.StagedFile) {
	if len(files) != 1 {
		return models.Invalid(fmt.Sprintf(
			"Exactly one %s file is required for tabular tasks, got %d",
			strings.Join(tabularExtensions, "/"), len(files))), files
	}

	f := files[0]
	switch ext(f.Name) {
	case ".csv":
		return checkCSV(f, expected), files
	case ".xlsx", ".xls":
		converted, v := convertWorkbook(f, expected)
		if !v.Valid {
			return v, files
		}
		return checkCSV(converted, expected), []*models.StagedFile{converted}
	default:
		return models.Invalid(fmt.Sprintf(
			"File %q is not allowed: only %s files can be uploaded for tabular tasks",
			f.Name, strings.Join(tabularExtensions, ", "))), files
	}
}

// columnsMatch reports whether header and expected are equal as sets.
// Duplicate header names never match.
func columnsMatch(header, expected []string) bool {
	got := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, dup := got[h]; dup {
			return false
		}
		got[h] = struct{}{}
	}

	want := make(map[string]struct{}, len(expected))
	for _, e := range expected {
		want[e] = struct{}{}
	}

	if len(got) != len(want) {
		return false
	}
	for k := range want {
		if _, ok := got[k]; !ok {
			return false
		}
	}
	return true
}

func mismatchMessage(header, expected []string) string {
	var missing, extra []string

	want := make(map[string]struct{}, len(expected))
	for _, e := range expected {
		want[e] = struct{}{}
	}
	got := make(map[string]struct{}, len(header))
	for _, h := range header {
		got[h] = struct{}{}
		if _, ok := want[h]; !ok {
			extra = append(extra, h)
		}
	}
	for _, e := range expected {
		if _, ok := got[e]; !ok {
			missing = append(missing, e)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	msg := fmt.Sprintf("Column mismatch. Expected columns: %s", strings.Join(expected, ", "))
	if len(missing) > 0 {
		msg += fmt.Sprintf("; missing: %s", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		msg += fmt.Sprintf("; unexpected: %s", strings.Join(extra, ", "))
	}
	if len(missing) == 0 && len(extra) == 0 {
		msg += "; duplicate columns found"
	}
	return msg
}
