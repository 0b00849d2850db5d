// Package importer reads tabular uploads (CSV or Excel) into rows keyed by
// normalized column names.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row with its 1-based line number in the file
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the value for a column
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

func newRow(line int, headers, record []string) *Row {
	row := &Row{Line: line, Data: make(map[string]string, len(headers))}
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			row.Data[h] = strings.TrimSpace(record[i])
		} else {
			row.Data[h] = ""
		}
	}
	return row
}

// Sheet is a parsed upload
type Sheet struct {
	Headers []string
	Rows    []*Row
	Errors  *ErrorCollection
}

// HasColumn reports whether the header row contains column
func (s *Sheet) HasColumn(column string) bool {
	for _, h := range s.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// Read parses r according to the file extension of filename
func Read(filename string, r io.Reader, maxRows int) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r, maxRows)
	case ".xlsx":
		return ReadXLSX(r, maxRows)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadCSV parses a CSV upload. Malformed rows are recorded and skipped.
func ReadCSV(r io.Reader, maxRows int) (*Sheet, error) {
	p, err := NewCSVParser(r)
	if err != nil {
		return nil, err
	}
	if err := p.ParseHeader(); err != nil {
		return nil, err
	}

	sheet := &Sheet{Headers: p.Headers(), Errors: NewErrorCollection(0)}
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr RowError
		if errors.As(err, &rowErr) {
			sheet.Errors.Add(rowErr)
			continue
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		if err := sheet.append(row, maxRows); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

// ReadXLSX parses the first worksheet of an Excel workbook
func ReadXLSX(r io.Reader, maxRows int) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	sheet := &Sheet{Headers: normalizeHeaders(records[0]), Errors: NewErrorCollection(0)}
	for i, record := range records[1:] {
		row := newRow(i+2, sheet.Headers, record)
		if row.IsEmpty() {
			continue
		}
		if err := sheet.append(row, maxRows); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

func (s *Sheet) append(row *Row, maxRows int) error {
	if maxRows > 0 && len(s.Rows) >= maxRows {
		return fmt.Errorf("file has more than %d rows", maxRows)
	}
	s.Rows = append(s.Rows, row)
	return nil
}

// headerAliases maps accepted header spellings to column names
var headerAliases = map[string]string{
	"name":              "name",
	"customer":          "name",
	"customer name":     "name",
	"الاسم":             "name",
	"اسم العميل":        "name",
	"phone":             "phone",
	"mobile":            "phone",
	"الجوال":            "phone",
	"الهاتف":            "phone",
	"رقم الجوال":        "phone",
	"email":             "email",
	"e-mail":            "email",
	"البريد":            "email",
	"البريد الإلكتروني": "email",
	"company":           "company",
	"الشركة":            "company",
	"address":           "address",
	"العنوان":           "address",
	"notes":             "notes",
	"ملاحظات":           "notes",
	"source":            "source",
	"المصدر":            "source",
}

// normalizeHeaders lowercases headers and resolves known aliases.
// Unknown headers are kept lowercased.
func normalizeHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, h := range record {
		key := strings.ToLower(strings.Join(strings.Fields(h), " "))
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		headers[i] = key
	}
	return headers
}
