package quality

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/partqc/internal/contracts"
)

// =============================================================================
// Classification
// =============================================================================

// Classify applies every acceptance rule to the part and returns a copy
// carrying the verdict and the ordered list of violations.
// ⭐ SSOT: 합격/불합격 판정은 이 함수에서만
func Classify(p contracts.PartRecord) contracts.PartRecord {
	var violations []contracts.Violation
	for _, r := range rules {
		if !r.Valid(p) {
			violations = append(violations, contracts.Violation{Code: r.Code, Message: r.Message})
		}
	}

	out := p
	out.Extra = copyExtra(p.Extra)
	out.Violations = violations
	if len(violations) == 0 {
		out.Status = contracts.StatusApproved
	} else {
		out.Status = contracts.StatusRejected
	}
	return out
}

// ClassifyAll classifies each part independently, preserving input order
func ClassifyAll(parts []contracts.PartRecord) []contracts.PartRecord {
	out := make([]contracts.PartRecord, len(parts))
	for i, p := range parts {
		out[i] = Classify(p)
	}
	return out
}

func copyExtra(extra map[string]string) map[string]string {
	if extra == nil {
		return nil
	}
	out := make(map[string]string, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// =============================================================================
// Validator
// =============================================================================

// Validator turns raw loaded rows into classified part records
type Validator struct {
	lenient bool
	log     zerolog.Logger
}

// NewValidator creates a validator.
// In strict mode a missing measurement is an input error; in lenient mode it counts as 0.
func NewValidator(lenient bool, log zerolog.Logger) *Validator {
	return &Validator{
		lenient: lenient,
		log:     log.With().Str("component", "quality.validator").Logger(),
	}
}

// ValidateAll parses and classifies the whole batch.
// It stops at the first malformed row.
func (v *Validator) ValidateAll(raws []contracts.RawRecord) ([]contracts.PartRecord, error) {
	out := make([]contracts.PartRecord, 0, len(raws))
	for i, raw := range raws {
		part, err := v.Parse(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Classify(part))
	}

	v.log.Debug().
		Int("records", len(out)).
		Bool("lenient", v.lenient).
		Msg("batch classified")

	return out, nil
}

// Parse converts one raw row into an unclassified part record
func (v *Validator) Parse(row int, raw contracts.RawRecord) (contracts.PartRecord, error) {
	part := contracts.PartRecord{ID: formatID(raw[contracts.FieldID])}

	measurements := []struct {
		field string
		dst   *float64
	}{
		{contracts.FieldSizeCM, &part.SizeCM},
		{contracts.FieldWeightG, &part.WeightG},
		{contracts.FieldFinishScore, &part.FinishScore},
	}

	for _, m := range measurements {
		value, present, err := parseNumber(raw[m.field])
		if err != nil {
			return contracts.PartRecord{}, &contracts.InputError{Row: row, Field: m.field, Reason: err.Error()}
		}
		if !present {
			if !v.lenient {
				return contracts.PartRecord{}, &contracts.InputError{Row: row, Field: m.field, Reason: "missing value"}
			}
			v.log.Debug().Int("row", row).Str("field", m.field).Msg("missing value defaulted to 0")
		}
		*m.dst = value
	}

	part.Extra = passthrough(raw)
	return part, nil
}

// parseNumber returns (value, present, error). Absent values are nil or blank strings.
func parseNumber(v any) (float64, bool, error) {
	var f float64

	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("not a number: %q", n.String())
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("not a number: %q", n)
		}
		f = parsed
	default:
		return 0, false, fmt.Errorf("unsupported type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("not a finite number: %v", f)
	}
	return f, true, nil
}

// formatID renders an opaque identifier. Integral floats drop the ".0" JSON adds.
func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case float64:
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return strconv.FormatFloat(id, 'f', 0, 64)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

// passthrough keeps every non-measurement column as a display string
func passthrough(raw contracts.RawRecord) map[string]string {
	var extra map[string]string
	for k, v := range raw {
		switch k {
		case contracts.FieldID, contracts.FieldSizeCM, contracts.FieldWeightG, contracts.FieldFinishScore:
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		if v == nil {
			extra[k] = ""
			continue
		}
		extra[k] = fmt.Sprint(v)
	}
	return extra
}
