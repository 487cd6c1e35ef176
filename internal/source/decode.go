package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/findex-cli/internal/table"
)

var errNoHeader = errors.New("no header row")

func decode(data []byte, f format, sheet string) ([][]string, error) {
	switch f {
	case formatCSV:
		return readDelimited(data, ',')
	case formatTSV:
		return readDelimited(data, '\t')
	default:
		return readWorkbook(data, sheet)
	}
}

func readWorkbook(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	name := sheets[0]
	if sheet != "" {
		name = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheet) {
				name = s
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("sheet %q not found; available sheets: %s", sheet, strings.Join(sheets, ", "))
		}
	}
	// Stored values, not the number-formatted display text.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return rows, nil
}

func readDelimited(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// rowsToTable treats the first row as the header. Short rows are padded with
// missing cells; cells beyond the header are dropped.
func rowsToTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errNoHeader
	}
	header := uniqueHeader(rows[0])
	body := rows[1:]
	cols := make([]table.Column, len(header))
	for j, name := range header {
		raw := make([]string, len(body))
		for i, rec := range body {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		cols[j] = table.ParseColumn(name, raw)
	}
	return table.New(cols...)
}

// uniqueHeader trims names, names blank headers by position and suffixes repeats.
func uniqueHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}
