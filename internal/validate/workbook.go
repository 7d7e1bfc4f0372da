package validate

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/predictupload/internal/models"
)

// readXLSX returns the rows of the first sheet of an .xlsx workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return wb.GetRows(sheets[0])
}

// readXLS returns the rows of the first sheet of a legacy BIFF workbook.
// The BIFF reader panics on malformed streams, so a panic becomes an error.
var readXLS = func(r io.Reader) (rows [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("malformed workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no workbook stream")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		rows = append(rows, xlsRow(sheet, i))
	}
	return rows, nil
}

// xlsRow returns nil for rows the sheet does not store.
func xlsRow(sheet *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := sheet.Row(i)
	cells = make([]string, row.LastCol())
	for c := range cells {
		cells[c] = row.Col(c)
	}
	return trimTrailing(cells)
}

// convertWorkbook checks the first sheet of an .xlsx or .xls file and, when
// its header row matches, renders the sheet as an in-memory CSV file named
// like the original with a .csv extension.
func convertWorkbook(f *models.StagedFile, expected []string) (*models.StagedFile, models.Verdict) {
	rc, err := f.Open()
	if err != nil {
		return nil, models.Invalid(fmt.Sprintf("Failed to read %q: %v", f.Name, err))
	}
	defer rc.Close()

	read := readXLSX
	if ext(f.Name) == ".xls" {
		read = readXLS
	}
	rows, err := read(rc)
	if err != nil {
		return nil, models.Invalid(fmt.Sprintf("Failed to parse %q: %v", f.Name, err))
	}
	return rowsToCSV(f.Name, rows, expected)
}

// rowsToCSV applies the header and data-row rules to sheet rows and writes
// them out as CSV.
func rowsToCSV(name string, rows [][]string, expected []string) (*models.StagedFile, models.Verdict) {
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, models.Invalid(fmt.Sprintf("Workbook %q is empty", name))
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	header = trimTrailing(header)
	if !columnsMatch(header, expected) {
		return nil, models.Invalid(mismatchMessage(header, expected))
	}

	data := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		row = trimTrailing(row)
		if len(row) > len(header) {
			return nil, models.Invalid(fmt.Sprintf("Workbook %q: row %d has more cells than the header", name, i+2))
		}
		padded := make([]string, len(header))
		copy(padded, row)
		data = append(data, padded)
	}
	if len(data) == 0 {
		return nil, models.Invalid(fmt.Sprintf("Workbook %q has a header row but no data rows", name))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, models.Invalid(fmt.Sprintf("Failed to convert %q: %v", name, err))
	}
	if err := w.WriteAll(data); err != nil {
		return nil, models.Invalid(fmt.Sprintf("Failed to convert %q: %v", name, err))
	}

	out := strings.TrimSuffix(name, filepath.Ext(name)) + ".csv"
	return models.NewStagedFileFromBytes(out, buf.Bytes()), models.Valid("converted")
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimTrailing(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return row[:n]
}
