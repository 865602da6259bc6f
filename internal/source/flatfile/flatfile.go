// Package flatfile implements the file source adapter. It reads user
// rows from CSV and XLSX exports; files cannot evaluate predicates, so
// the adapter over-returns and the engine post-filters.
package flatfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"unify/internal/record"
)

// headerFields maps normalized column headers to record fields. Exports
// in the wild vary on spacing and case; anything unrecognized is
// ignored.
var headerFields = map[string]record.Field{
	"id":          record.FieldID,
	"user_id":     record.FieldID,
	"name":        record.FieldName,
	"full_name":   record.FieldName,
	"email":       record.FieldEmail,
	"region":      record.FieldRegion,
	"signup_date": record.FieldSignupDate,
	"signup":      record.FieldSignupDate,
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// readFile loads one export. The format is chosen by extension.
func readFile(path string) ([]record.SourceRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func readCSV(path string) ([]record.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rowsToRecords(rows), nil
}

func readXLSX(path string) ([]record.SourceRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rowsToRecords(rows), nil
}

// rowsToRecords maps a header row plus data rows onto records. Rows
// shorter than the header are padded with empty cells; rows with no
// recognized values are dropped.
func rowsToRecords(rows [][]string) []record.SourceRecord {
	if len(rows) < 2 {
		return nil
	}

	cols := make([]record.Field, len(rows[0]))
	known := false
	for i, h := range rows[0] {
		if f, ok := headerFields[normalizeHeader(h)]; ok {
			cols[i] = f
			known = true
		}
	}
	if !known {
		return nil
	}

	var out []record.SourceRecord
	for _, row := range rows[1:] {
		fields := make(record.Fields)
		for i, f := range cols {
			if f == "" || i >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				fields[f] = v
			}
		}
		if len(fields) == 0 {
			continue
		}
		out = append(out, record.SourceRecord{Source: record.TagFile, Fields: fields})
	}
	return out
}
