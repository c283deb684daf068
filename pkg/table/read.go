package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/tableheatmap/pkg/errors"
)

// ReadOptions configures [Read].
type ReadOptions struct {
	// Schema maps headers to roles. Required for CSV and XLSX input;
	// optional for JSON, where it overrides the embedded roles.
	Schema *Schema
	// Sheet selects the XLSX sheet. Empty means the first sheet.
	Sheet string
}

// Input formats accepted by [Decode].
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// FormatOf maps a file name to its input format by extension, or ""
// when the extension is not supported.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

// Read loads a table from path, choosing the reader by extension:
// .csv, .tsv, .xlsx and .json are supported.
func Read(path string, opts ReadOptions) (*Table, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format := FormatOf(path)
	if format == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q (must be .csv, .tsv, .xlsx or .json)", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format, opts)
}

// Decode reads a table in the named input format.
func Decode(r io.Reader, format string, opts ReadOptions) (*Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r, ',', opts.Schema)
	case FormatTSV:
		return ReadCSV(r, '\t', opts.Schema)
	case FormatXLSX:
		return ReadXLSX(r, opts.Sheet, opts.Schema)
	case FormatJSON:
		return ReadJSON(r, opts.Schema)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q (must be csv, tsv, xlsx or json)", format)
	}
}

// ReadCSV reads delimited text with a header row. Rows shorter than the
// header are padded with missing cells.
func ReadCSV(r io.Reader, comma rune, sch *Schema) (*Table, error) {
	if sch == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a column schema is required for delimited input")
	}
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV headers")
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV row %d", len(records)+1)
		}
		records = append(records, rec)
	}
	return fromRecords(headers, records, sch)
}

// ReadXLSX reads the named sheet of a workbook (first sheet when empty).
// The first non-empty row is the header row.
func ReadXLSX(r io.Reader, sheet string, sch *Schema) (*Table, error) {
	if sch == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a column schema is required for workbook input")
	}
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}

	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sheet %q is empty", sheet)
	}

	var records [][]string
	for _, row := range rows[start+1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, row)
	}
	return fromRecords(rows[start], records, sch)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func fromRecords(headers []string, records [][]string, sch *Schema) (*Table, error) {
	cols, err := sch.Resolve(headers)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: cols, Rows: make([][]any, 0, len(records))}
	for _, rec := range records {
		row := make([]any, len(cols))
		for j := range cols {
			if j >= len(rec) {
				continue
			}
			if cols[j].HasRole(RoleValue) {
				row[j] = parseMeasure(rec[j])
			} else {
				row[j] = parseCategory(rec[j])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadJSON decodes the host table shape:
//
//	{"columns": [{"name": "x", "roles": ["CategoryX"]}, ...],
//	 "rows":    [["a", "b", "g", 10], ...]}
//
// When sch is non-nil it replaces the embedded roles and formats.
func ReadJSON(r io.Reader, sch *Schema) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode table")
	}
	if sch != nil {
		headers := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			headers[i] = c.Name
		}
		cols, err := sch.Resolve(headers)
		if err != nil {
			return nil, err
		}
		t.Columns = cols
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteJSON encodes t in the shape accepted by [ReadJSON].
func WriteJSON(t *Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
