package contracts

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller input that violates the inspection contract:
// an empty batch, an unclassified record, or a missing/non-numeric measurement.
// ⭐ SSOT: 입력 오류는 모두 이 sentinel로 식별
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a single malformed input record
type InputError struct {
	Row    int    // 0-based position in the batch, -1 when not row specific
	Field  string // measurement name (size_cm, weight_g, finish_score)
	Reason string
}

func (e *InputError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: row %d: %s", ErrInvalidInput, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s: row %d: field %s: %s", ErrInvalidInput, e.Row, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// IsInvalidInput reports whether err is (or wraps) an input contract violation
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
