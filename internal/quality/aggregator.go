package quality

import (
	"github.com/wonny/partqc/internal/contracts"
)

// Summarize reduces a classified batch into counts, percentages and the alert decision.
// Every record must carry a verdict and the batch must not be empty.
// ⭐ SSOT: 합격률/불합격률 통계는 이 함수에서만 계산
func Summarize(parts []contracts.PartRecord) (contracts.QualityReport, error) {
	total := len(parts)
	if total == 0 {
		return contracts.QualityReport{}, &contracts.InputError{Row: -1, Reason: "cannot summarize an empty batch"}
	}

	var approved, rejected int
	for i, p := range parts {
		switch p.Status {
		case contracts.StatusApproved:
			approved++
		case contracts.StatusRejected:
			rejected++
		default:
			return contracts.QualityReport{}, &contracts.InputError{Row: i, Reason: "record has not been classified"}
		}
	}

	approvedPct := float64(approved) / float64(total) * 100
	rejectedPct := float64(rejected) / float64(total) * 100

	return contracts.QualityReport{
		Total:         total,
		ApprovedCount: approved,
		RejectedCount: rejected,
		ApprovedPct:   approvedPct,
		RejectedPct:   rejectedPct,
		Alert:         exceedsAlertRate(rejected, total),
	}, nil
}

// exceedsAlertRate reports rejected/total*100 > AlertRatePct on unrounded values
func exceedsAlertRate(rejected, total int) bool {
	return float64(rejected)*100 > AlertRatePct*float64(total)
}
