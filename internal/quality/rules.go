package quality

import "github.com/wonny/partqc/internal/contracts"

// Acceptance thresholds. Bounds are inclusive for size and weight, exclusive for finish.
const (
	MinSizeCM    = 10.0
	MaxSizeCM    = 20.0
	MinWeightG   = 50.0
	MaxWeightG   = 100.0
	MinFinish    = 7.0 // finish must be strictly greater
	AlertRatePct = contracts.AlertThresholdPct
)

// Rule is one acceptance check applied to every part
type Rule struct {
	Code    contracts.ViolationCode
	Message string
	Valid   func(p contracts.PartRecord) bool
}

// rules are evaluated in this order; the order is part of the output contract
var rules = []Rule{
	{
		Code:    contracts.ViolationSize,
		Message: "size out of bounds (10 to 20 cm)",
		Valid: func(p contracts.PartRecord) bool {
			return p.SizeCM >= MinSizeCM && p.SizeCM <= MaxSizeCM
		},
	},
	{
		Code:    contracts.ViolationWeight,
		Message: "weight out of bounds (50 to 100 g)",
		Valid: func(p contracts.PartRecord) bool {
			return p.WeightG >= MinWeightG && p.WeightG <= MaxWeightG
		},
	},
	{
		Code:    contracts.ViolationFinish,
		Message: "insufficient finish (7 or below)",
		Valid: func(p contracts.PartRecord) bool {
			return p.FinishScore > MinFinish
		},
	},
}

// Rules returns a copy of the acceptance rules in evaluation order
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
