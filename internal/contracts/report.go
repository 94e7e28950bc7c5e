package contracts

import (
	"fmt"
	"math"
	"time"
)

// AlertThresholdPct is the rejection rate above which a batch raises an alert.
// Strictly greater than: exactly 20% does not alert.
const AlertThresholdPct = 20.0

// QualityReport is the aggregate outcome of one inspection batch.
// Percentages are unrounded; rounding is a display concern.
type QualityReport struct {
	Total         int     `json:"total"`
	ApprovedCount int     `json:"approved_count"`
	RejectedCount int     `json:"rejected_count"`
	ApprovedPct   float64 `json:"approved_pct"`
	RejectedPct   float64 `json:"rejected_pct"`
	Alert         bool    `json:"alert"`
}

// RoundPct rounds a percentage to two decimal places
func RoundPct(pct float64) float64 {
	return math.Round(pct*100) / 100
}

// FormatPct renders a percentage with two decimals, rounded like RoundPct
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.2f%%", RoundPct(pct))
}

// ApprovedDisplay renders "7 (70.00%)"
func (r QualityReport) ApprovedDisplay() string {
	return fmt.Sprintf("%d (%s)", r.ApprovedCount, FormatPct(r.ApprovedPct))
}

// RejectedDisplay renders "3 (30.00%)"
func (r QualityReport) RejectedDisplay() string {
	return fmt.Sprintf("%d (%s)", r.RejectedCount, FormatPct(r.RejectedPct))
}

// IsConsistent checks the count invariant approved + rejected == total
func (r QualityReport) IsConsistent() bool {
	return r.Total > 0 && r.ApprovedCount+r.RejectedCount == r.Total
}

// Inspection bundles one classified batch with its report
// ⭐ SSOT: 검사 결과는 이 구조체로만 표시 계층에 전달
type Inspection struct {
	ID          string        `json:"id"`
	Source      string        `json:"source,omitempty"`
	InspectedAt time.Time     `json:"inspected_at"`
	Lenient     bool          `json:"lenient"`
	Records     []PartRecord  `json:"records"`
	Report      QualityReport `json:"report"`
}
