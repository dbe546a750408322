package rules

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"aderencia/constants"
	"aderencia/internal/common"
)

// LoadTable reads a reference table, picking the reader by file extension.
func LoadTable(path string) (*Table, error) {
	switch constants.FormatForPath(path) {
	case constants.FormatCSV:
		return loadCSV(path)
	case constants.FormatXLSX:
		return loadXLSX(path)
	case constants.FormatJSON:
		return loadJSON(path)
	default:
		return nil, common.NewConfigError(fmt.Sprintf("unsupported table format: %s", path), common.ErrInvalidInput)
	}
}

// loadCSV reads a CSV table. Brazilian exports are frequently Latin-1 with
// ";" separators, so invalid UTF-8 is re-decoded as ISO 8859-1 and the
// separator is sniffed from the header line.
func loadCSV(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewConfigError("cannot read table "+path, err)
	}
	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, common.NewConfigError("cannot repair encoding of "+path, err)
		}
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")
	header, _, _ := strings.Cut(text, "\n")
	r := csv.NewReader(strings.NewReader(text))
	if strings.Count(header, ";") > strings.Count(header, ",") {
		r.Comma = ';'
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, common.NewConfigError("cannot parse table "+path, err)
	}
	if len(records) == 0 {
		return nil, common.NewConfigError("table "+path+" has no header row", common.ErrInvalidInput)
	}
	return tableFromRecords(path, records), nil
}

// loadXLSX reads the first sheet of a workbook; the first row is the header.
func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewConfigError("cannot open workbook "+path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, common.NewConfigError("workbook "+path+" has no sheets", common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.NewConfigError("cannot read sheet "+sheet+" of "+path, err)
	}
	if len(rows) == 0 {
		return nil, common.NewConfigError("table "+path+" has no header row", common.ErrInvalidInput)
	}
	return tableFromRecords(path, rows), nil
}

// loadJSON reads an array of flat objects. Column order is not defined by
// JSON, so headers come out sorted for determinism.
func loadJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewConfigError("cannot read table "+path, err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.NewConfigError("cannot parse table "+path, err)
	}

	seen := map[string]struct{}{}
	var columns []string
	for _, obj := range raw {
		for k := range obj {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	t := &Table{Source: path, Columns: columns}
	for _, obj := range raw {
		row := make(Row, len(obj))
		for k, v := range obj {
			if v == nil {
				row[k] = ""
				continue
			}
			row[k] = fmt.Sprintf("%v", v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func tableFromRecords(path string, records [][]string) *Table {
	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}
	t := &Table{Source: path, Columns: columns}
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
