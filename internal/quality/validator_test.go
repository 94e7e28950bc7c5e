package quality

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/partqc/internal/contracts"
)

func part(size, weight, finish float64) contracts.PartRecord {
	return contracts.PartRecord{SizeCM: size, WeightG: weight, FinishScore: finish}
}

func codes(p contracts.PartRecord) []contracts.ViolationCode {
	var out []contracts.ViolationCode
	for _, v := range p.Violations {
		out = append(out, v.Code)
	}
	return out
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		part      contracts.PartRecord
		wantCodes []contracts.ViolationCode
	}{
		{"nominal part", part(15, 75, 9), nil},
		{"size lower bound inclusive", part(10, 75, 9), nil},
		{"size upper bound inclusive", part(20, 75, 9), nil},
		{"size just below", part(9.99, 75, 9), []contracts.ViolationCode{contracts.ViolationSize}},
		{"size just above", part(20.01, 75, 9), []contracts.ViolationCode{contracts.ViolationSize}},
		{"weight lower bound inclusive", part(15, 50, 9), nil},
		{"weight upper bound inclusive", part(15, 100, 9), nil},
		{"weight just below", part(15, 49.99, 9), []contracts.ViolationCode{contracts.ViolationWeight}},
		{"weight just above", part(15, 100.01, 9), []contracts.ViolationCode{contracts.ViolationWeight}},
		{"finish of exactly 7 is insufficient", part(15, 75, 7), []contracts.ViolationCode{contracts.ViolationFinish}},
		{"finish just above 7", part(15, 75, 7.01), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.part)

			assert.Equal(t, tt.wantCodes, codes(got))
			if tt.wantCodes == nil {
				assert.Equal(t, contracts.StatusApproved, got.Status)
				assert.Empty(t, got.ErrorReason())
			} else {
				assert.Equal(t, contracts.StatusRejected, got.Status)
				assert.NotEmpty(t, got.ErrorReason())
			}
		})
	}
}

func TestClassify_MultipleViolationsInRuleOrder(t *testing.T) {
	got := Classify(part(5, 200, 3))

	assert.Equal(t, contracts.StatusRejected, got.Status)
	assert.Equal(t, []contracts.ViolationCode{
		contracts.ViolationSize,
		contracts.ViolationWeight,
		contracts.ViolationFinish,
	}, codes(got))
	assert.Equal(t,
		"size out of bounds (10 to 20 cm), weight out of bounds (50 to 100 g), insufficient finish (7 or below)",
		got.ErrorReason(),
	)
}

func TestClassify_Deterministic(t *testing.T) {
	in := part(25, 40, 7)
	first := Classify(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(in))
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	in := contracts.PartRecord{ID: "A1", SizeCM: 5, WeightG: 75, FinishScore: 9, Extra: map[string]string{"line": "2"}}
	out := Classify(in)
	out.Extra["line"] = "changed"

	assert.Empty(t, in.Status)
	assert.Nil(t, in.Violations)
	assert.Equal(t, "2", in.Extra["line"])
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	in := []contracts.PartRecord{
		{ID: "1", SizeCM: 5, WeightG: 75, FinishScore: 9},
		{ID: "2", SizeCM: 15, WeightG: 75, FinishScore: 9},
		{ID: "3", SizeCM: 15, WeightG: 75, FinishScore: 2},
	}

	out := ClassifyAll(in)
	require.Len(t, out, 3)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, contracts.StatusRejected, out[0].Status)
	assert.Equal(t, contracts.StatusApproved, out[1].Status)
	assert.Equal(t, contracts.StatusRejected, out[2].Status)
}

func TestValidator_Parse(t *testing.T) {
	strict := NewValidator(false, zerolog.Nop())
	lenient := NewValidator(true, zerolog.Nop())

	t.Run("csv strings", func(t *testing.T) {
		got, err := strict.Parse(0, contracts.RawRecord{
			"id": " P-01 ", "size_cm": "12.5", "weight_g": " 60 ", "finish_score": "8", "line": "A",
		})
		require.NoError(t, err)
		assert.Equal(t, "P-01", got.ID)
		assert.Equal(t, 12.5, got.SizeCM)
		assert.Equal(t, 60.0, got.WeightG)
		assert.Equal(t, 8.0, got.FinishScore)
		assert.Equal(t, map[string]string{"line": "A"}, got.Extra)
		assert.Empty(t, got.Status, "parse does not classify")
	})

	t.Run("json numbers", func(t *testing.T) {
		got, err := strict.Parse(0, contracts.RawRecord{
			"id": float64(7), "size_cm": float64(11), "weight_g": json.Number("55.5"), "finish_score": 9,
		})
		require.NoError(t, err)
		assert.Equal(t, "7", got.ID)
		assert.Equal(t, 55.5, got.WeightG)
		assert.Equal(t, 9.0, got.FinishScore)
	})

	t.Run("missing field is invalid input in strict mode", func(t *testing.T) {
		_, err := strict.Parse(4, contracts.RawRecord{"size_cm": "12", "weight_g": "60"})
		require.Error(t, err)
		assert.True(t, contracts.IsInvalidInput(err))

		var inputErr *contracts.InputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, 4, inputErr.Row)
		assert.Equal(t, contracts.FieldFinishScore, inputErr.Field)
	})

	t.Run("blank cell counts as missing", func(t *testing.T) {
		_, err := strict.Parse(0, contracts.RawRecord{"size_cm": "12", "weight_g": "  ", "finish_score": "8"})
		assert.True(t, contracts.IsInvalidInput(err))
	})

	t.Run("missing field defaults to zero in lenient mode", func(t *testing.T) {
		got, err := lenient.Parse(0, contracts.RawRecord{"size_cm": "12", "weight_g": "60"})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.FinishScore)
		assert.Equal(t, contracts.StatusRejected, Classify(got).Status)
	})

	t.Run("non numeric is invalid input in both modes", func(t *testing.T) {
		raw := contracts.RawRecord{"size_cm": "twelve", "weight_g": "60", "finish_score": "8"}
		_, err := strict.Parse(0, raw)
		assert.True(t, contracts.IsInvalidInput(err))
		_, err = lenient.Parse(0, raw)
		assert.True(t, contracts.IsInvalidInput(err))
	})

	t.Run("unsupported types are invalid input", func(t *testing.T) {
		_, err := lenient.Parse(0, contracts.RawRecord{"size_cm": true, "weight_g": "60", "finish_score": "8"})
		assert.True(t, contracts.IsInvalidInput(err))
	})

	t.Run("non finite numbers are invalid input", func(t *testing.T) {
		_, err := strict.Parse(0, contracts.RawRecord{"size_cm": math.NaN(), "weight_g": "60", "finish_score": "8"})
		assert.True(t, contracts.IsInvalidInput(err))
		_, err = strict.Parse(0, contracts.RawRecord{"size_cm": "12", "weight_g": "+Inf", "finish_score": "8"})
		assert.True(t, contracts.IsInvalidInput(err))
	})
}

func TestValidator_ValidateAll(t *testing.T) {
	v := NewValidator(false, zerolog.Nop())

	parts, err := v.ValidateAll([]contracts.RawRecord{
		{"id": "1", "size_cm": "15", "weight_g": "75", "finish_score": "9"},
		{"id": "2", "size_cm": "5", "weight_g": "75", "finish_score": "9"},
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, contracts.StatusApproved, parts[0].Status)
	assert.Equal(t, contracts.StatusRejected, parts[1].Status)

	_, err = v.ValidateAll([]contracts.RawRecord{
		{"id": "1", "size_cm": "15", "weight_g": "75", "finish_score": "9"},
		{"id": "2", "size_cm": "x", "weight_g": "75", "finish_score": "9"},
	})
	var inputErr *contracts.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 1, inputErr.Row)
}
