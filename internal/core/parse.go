package core

// parse.go turns uploaded file bytes into raw records.
//
// CSV files must start with a header row. Blank rows are skipped, a leading
// UTF-8 BOM is dropped and invalid UTF-8 is replaced with U+FFFD. JSON files
// hold either an array of objects or a single object. Numbers are kept as
// json.Number so long phone numbers survive without rounding.

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFileType is returned for files that are neither CSV nor JSON.
var ErrUnsupportedFileType = errors.New("unsupported file type")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile parses data according to the extension of name.
// An empty file yields no records and no error.
func ParseFile(name string, data []byte) ([]RawRecord, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return parseCSV(data)
	case ".json":
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("%w %q (expected .csv or .json)", ErrUnsupportedFileType, ext)
	}
}

func parseCSV(data []byte) ([]RawRecord, error) {
	r := csv.NewReader(bytes.NewReader(cleanText(data)))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}

	header := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, nil
	}

	columns := make([]string, len(rows[header]))
	for i, col := range rows[header] {
		columns[i] = strings.TrimSpace(col)
	}

	var records []RawRecord
	for _, row := range rows[header+1:] {
		if isEmptyRow(row) {
			continue
		}

		rec := make(RawRecord, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if _, dup := rec[col]; dup {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec[col] = value
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseJSON(data []byte) ([]RawRecord, error) {
	data = bytes.TrimSpace(cleanText(data))
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("parse JSON: unexpected data after top-level value")
	}

	switch v := doc.(type) {
	case map[string]any:
		return []RawRecord{v}, nil
	case []any:
		records := make([]RawRecord, 0, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse JSON: element %d is not an object", i)
			}
			records = append(records, obj)
		}
		return records, nil
	default:
		return nil, errors.New("parse JSON: expected an object or an array of objects")
	}
}

// cleanText strips a UTF-8 BOM and replaces invalid UTF-8 sequences.
func cleanText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("\uFFFD"))
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
