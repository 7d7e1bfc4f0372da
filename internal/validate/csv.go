package validate

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/predictupload/internal/models"
)

const utf8BOM = "\ufeff"

// readTable parses delimited data with a header row. Blank lines are skipped
// and every data row must have as many fields as the header.
func readTable(r io.Reader) (header []string, rows int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return header, rows, err
		}
		rows++
	}

	return header, rows, nil
}

func checkCSV(f *models.StagedFile, expected []string) models.Verdict {
	data, err := f.ReadAll()
	if err != nil {
		return models.Invalid(fmt.Sprintf("Failed to read %q: %v", f.Name, err))
	}

	header, rows, err := readTable(bytes.NewReader(data))
	if err != nil {
		return models.Invalid(fmt.Sprintf("Failed to parse %q: %v", f.Name, err))
	}
	if rows == 0 {
		return models.Invalid(fmt.Sprintf("File %q contains no data rows", f.Name))
	}
	if !columnsMatch(header, expected) {
		return models.Invalid(mismatchMessage(header, expected))
	}

	return models.Valid(fmt.Sprintf("File %q is valid: %d row(s)", f.Name, rows))
}
