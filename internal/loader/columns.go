package loader

import (
	"fmt"
	"strings"

	"github.com/wonny/partqc/internal/contracts"
)

// columnAliases maps normalized source headers onto canonical field names.
// Portuguese headers are what the plant's spreadsheet export produces.
var columnAliases = map[string]string{
	"id": contracts.FieldID,

	"size_cm":      contracts.FieldSizeCM,
	"size (cm)":    contracts.FieldSizeCM,
	"size":         contracts.FieldSizeCM,
	"tamanho (cm)": contracts.FieldSizeCM,
	"tamanho":      contracts.FieldSizeCM,

	"weight_g":   contracts.FieldWeightG,
	"weight (g)": contracts.FieldWeightG,
	"weight":     contracts.FieldWeightG,
	"peso (g)":   contracts.FieldWeightG,
	"peso":       contracts.FieldWeightG,

	"finish_score": contracts.FieldFinishScore,
	"finish":       contracts.FieldFinishScore,
	"acabamento":   contracts.FieldFinishScore,
}

// CanonicalColumn returns the canonical field for a source header,
// or the trimmed header itself for passthrough columns.
func CanonicalColumn(header string) string {
	trimmed := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	key := strings.ToLower(strings.Join(strings.Fields(trimmed), " "))
	if canonical, ok := columnAliases[key]; ok {
		return canonical
	}
	return trimmed
}

// canonicalHeaders maps every header and rejects duplicates after aliasing
func canonicalHeaders(headers []string) ([]string, error) {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		c := CanonicalColumn(h)
		if c == "" {
			return nil, fmt.Errorf("column %d has an empty header", i+1)
		}
		if prev, dup := seen[c]; dup {
			return nil, fmt.Errorf("columns %d and %d both map to %q", prev+1, i+1, c)
		}
		seen[c] = i
		out[i] = c
	}
	return out, nil
}

// rowRecord zips canonical headers with one row of cell text
func rowRecord(headers, cells []string) contracts.RawRecord {
	rec := make(contracts.RawRecord, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			rec[h] = cells[i]
		} else {
			rec[h] = nil
		}
	}
	return rec
}
