package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/partqc/internal/contracts"
)

// decodeCSV reads a header row followed by one part per row
func decodeCSV(r io.Reader) ([]contracts.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // short rows leave trailing columns missing

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []contracts.RawRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	headers, err := canonicalHeaders(header)
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	var records []contracts.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) > len(headers) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("csv line %d: %d fields for %d columns", line, len(row), len(headers))
		}
		records = append(records, rowRecord(headers, row))
	}

	if records == nil {
		records = []contracts.RawRecord{}
	}
	return records, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
