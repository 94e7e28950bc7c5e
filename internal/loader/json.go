package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wonny/partqc/internal/contracts"
)

// decodeJSON reads an array of objects (pandas "records" orientation)
func decodeJSON(r io.Reader) ([]contracts.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	records := make([]contracts.RawRecord, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("element %d is not an object", i)
		}

		rec := make(contracts.RawRecord, len(row))
		for k, v := range row {
			c := CanonicalColumn(k)
			if _, dup := rec[c]; dup {
				return nil, fmt.Errorf("element %d: several keys map to %q", i, c)
			}
			rec[c] = v
		}
		records = append(records, rec)
	}

	return records, nil
}
