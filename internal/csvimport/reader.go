// Package csvimport parses uploaded delimited text files into raw records.
// The grammar is plain CSV: comma-delimited, double-quote escaped, UTF-8,
// header row required. Header names become the raw record keys, so the
// normalizer's field-alias tables handle Japanese and English headers alike.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// ReadRecords parses a CSV stream into raw records. Rows with a column count
// different from the header are skipped, not fatal: one malformed row never
// aborts the batch.
func ReadRecords(r io.Reader) ([]model.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty: header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var records []model.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if len(row) != len(header) {
			continue
		}

		record := make(model.RawRecord, len(header))
		for i, value := range row {
			record[header[i]] = value
		}
		records = append(records, record)
	}

	return records, nil
}
