package presenter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/partqc/internal/contracts"
)

// RecordView is one table row
type RecordView struct {
	ID          string                    `json:"id" yaml:"id"`
	WeightG     float64                   `json:"weight_g" yaml:"weight_g"`
	SizeCM      float64                   `json:"size_cm" yaml:"size_cm"`
	FinishScore float64                   `json:"finish_score" yaml:"finish_score"`
	Status      contracts.Status          `json:"status" yaml:"status"`
	Error       string                    `json:"error" yaml:"error"`
	Violations  []contracts.ViolationCode `json:"violations,omitempty" yaml:"violations,omitempty"`
	Extra       map[string]string         `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ReportView is the statistics block with display rounding applied
type ReportView struct {
	Total         int     `json:"total" yaml:"total"`
	ApprovedCount int     `json:"approved_count" yaml:"approved_count"`
	RejectedCount int     `json:"rejected_count" yaml:"rejected_count"`
	ApprovedPct   float64 `json:"approved_pct" yaml:"approved_pct"`
	RejectedPct   float64 `json:"rejected_pct" yaml:"rejected_pct"`
	Approved      string  `json:"approved" yaml:"approved"`
	Rejected      string  `json:"rejected" yaml:"rejected"`
	Alert         bool    `json:"alert" yaml:"alert"`
	AlertMessage  string  `json:"alert_message,omitempty" yaml:"alert_message,omitempty"`
}

// InspectionView is what every output format renders
type InspectionView struct {
	ID          string       `json:"id" yaml:"id"`
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	InspectedAt time.Time    `json:"inspected_at" yaml:"inspected_at"`
	Lenient     bool         `json:"lenient" yaml:"lenient"`
	Records     []RecordView `json:"records" yaml:"records"`
	Report      ReportView   `json:"report" yaml:"report"`
}

// NewView builds the display model. Records keep input order.
func NewView(insp *contracts.Inspection) InspectionView {
	records := make([]RecordView, len(insp.Records))
	for i, p := range insp.Records {
		records[i] = newRecordView(p)
	}

	return InspectionView{
		ID:          insp.ID,
		Source:      insp.Source,
		InspectedAt: insp.InspectedAt,
		Lenient:     insp.Lenient,
		Records:     records,
		Report:      NewReportView(insp.Report),
	}
}

// NewReportView rounds percentages for display; the alert flag is copied as computed
func NewReportView(r contracts.QualityReport) ReportView {
	view := ReportView{
		Total:         r.Total,
		ApprovedCount: r.ApprovedCount,
		RejectedCount: r.RejectedCount,
		ApprovedPct:   contracts.RoundPct(r.ApprovedPct),
		RejectedPct:   contracts.RoundPct(r.RejectedPct),
		Approved:      r.ApprovedDisplay(),
		Rejected:      r.RejectedDisplay(),
		Alert:         r.Alert,
	}
	if r.Alert {
		view.AlertMessage = AlertMessage(r)
	}
	return view
}

func newRecordView(p contracts.PartRecord) RecordView {
	var codes []contracts.ViolationCode
	for _, v := range p.Violations {
		codes = append(codes, v.Code)
	}

	return RecordView{
		ID:          p.ID,
		WeightG:     p.WeightG,
		SizeCM:      p.SizeCM,
		FinishScore: p.FinishScore,
		Status:      p.Status,
		Error:       p.ErrorReason(),
		Violations:  codes,
		Extra:       p.Extra,
	}
}

// DisplayOrder lists approved rows first, then rejected rows,
// each group in input order.
func (v InspectionView) DisplayOrder() []RecordView {
	out := make([]RecordView, 0, len(v.Records))
	for _, status := range []contracts.Status{contracts.StatusApproved, contracts.StatusRejected} {
		for _, rec := range v.Records {
			if rec.Status == status {
				out = append(out, rec)
			}
		}
	}
	return out
}

// SummaryLine renders the statistics bar
func SummaryLine(r contracts.QualityReport) string {
	return fmt.Sprintf("Total parts inspected: %d | Approved: %s | Rejected: %s",
		r.Total, r.ApprovedDisplay(), r.RejectedDisplay())
}

// AlertMessage is the warning shown when the rejection rate exceeds the threshold
func AlertMessage(r contracts.QualityReport) string {
	return fmt.Sprintf("More than %s%% of parts were rejected (%s). Review the manufacturing process.",
		formatNumber(contracts.AlertThresholdPct), contracts.FormatPct(r.RejectedPct))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
