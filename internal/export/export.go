// Package export writes a table to disk as a workbook or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/findex-cli/internal/table"
	"github.com/KaramelBytes/findex-cli/internal/utils"
)

// DefaultSheet names the worksheet of exported workbooks.
const DefaultSheet = "Cleaned"

// Write picks the format from the extension of path: .csv, .tsv or .xlsx.
func Write(t *table.Table, path string) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		if err := WriteCSV(t, &buf, ','); err != nil {
			return err
		}
	case ".tsv":
		if err := WriteCSV(t, &buf, '\t'); err != nil {
			return err
		}
	case ".xlsx":
		if err := WriteXLSX(t, &buf, DefaultSheet); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q (use .xlsx, .csv or .tsv)", filepath.Ext(path))
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteCSV writes a header row then one record per row; missing cells are empty.
func WriteCSV(t *table.Table, w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, t.Cols())
	for i := 0; i < t.Rows(); i++ {
		for j, c := range t.Row(i) {
			rec[j] = csvValue(c)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to a single-sheet workbook. Numeric cells are stored
// as numbers; missing cells are left blank.
func WriteXLSX(t *table.Table, w io.Writer, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open sheet writer: %w", err)
	}
	header := make([]any, t.Cols())
	for j, n := range t.Names() {
		header[j] = n
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Rows(); i++ {
		row := t.Row(i)
		vals := make([]any, len(row))
		for j, c := range row {
			switch c.Type {
			case table.Number:
				vals[j] = c.Num
			case table.Text:
				vals[j] = c.Str
			default:
				vals[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func csvValue(c table.Cell) string {
	switch c.Type {
	case table.Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case table.Text:
		return c.Str
	default:
		return ""
	}
}
