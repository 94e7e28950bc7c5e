package contracts

import "strings"

// Status is the verdict assigned to a part by the validator
type Status string

const (
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsValid reports whether s is a known verdict
func (s Status) IsValid() bool {
	return s == StatusApproved || s == StatusRejected
}

// ViolationCode identifies which acceptance rule a part failed
type ViolationCode string

const (
	ViolationSize   ViolationCode = "size_out_of_bounds"
	ViolationWeight ViolationCode = "weight_out_of_bounds"
	ViolationFinish ViolationCode = "insufficient_finish"
)

// Violation is one failed acceptance rule
type Violation struct {
	Code    ViolationCode `json:"code" yaml:"code"`
	Message string        `json:"message" yaml:"message"`
}

// ReasonSeparator joins violation messages for display
const ReasonSeparator = ", "

// PartRecord represents one manufactured unit under inspection
// ⭐ SSOT: 로더 → 검증기 → 집계기 → 표시 계층으로 전달되는 부품 레코드
type PartRecord struct {
	ID          string            `json:"id,omitempty" yaml:"id,omitempty"` // opaque identifier, may be empty
	SizeCM      float64           `json:"size_cm" yaml:"size_cm"`
	WeightG     float64           `json:"weight_g" yaml:"weight_g"`
	FinishScore float64           `json:"finish_score" yaml:"finish_score"`
	Extra       map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"` // passthrough columns

	// Set by the validator, read-only afterwards
	Status     Status      `json:"status,omitempty" yaml:"status,omitempty"`
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// IsClassified reports whether the validator has assigned a verdict
func (p PartRecord) IsClassified() bool {
	return p.Status.IsValid()
}

// IsApproved reports whether the part passed every rule
func (p PartRecord) IsApproved() bool {
	return p.Status == StatusApproved
}

// ErrorReason joins the violation messages in rule order.
// Empty for approved parts.
func (p PartRecord) ErrorReason() string {
	if len(p.Violations) == 0 {
		return ""
	}

	msgs := make([]string, len(p.Violations))
	for i, v := range p.Violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, ReasonSeparator)
}
