package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/internal/metrics"
)

// Triggers label where an inspection was started from
const (
	TriggerCLI   = "cli"
	TriggerAPI   = "api"
	TriggerWatch = "watch"
)

// Publisher receives every completed inspection (e.g. the websocket hub)
type Publisher interface {
	Publish(insp *contracts.Inspection)
}

// Request is one batch handed to the inspector
type Request struct {
	Source  string
	Trigger string
	Lenient bool
	Records []contracts.RawRecord
}

// Inspector runs validation and aggregation over one batch
// ⭐ SSOT: 검증 → 집계 파이프라인은 이 구조체에서만 실행
type Inspector struct {
	log        zerolog.Logger
	publishers []Publisher
	now        func() time.Time
}

// NewInspector creates a new inspector
func NewInspector(log zerolog.Logger) *Inspector {
	return &Inspector{
		log: log.With().Str("component", "quality.inspector").Logger(),
		now: time.Now,
	}
}

// WithPublisher adds a publisher notified after each successful inspection
func (i *Inspector) WithPublisher(p Publisher) *Inspector {
	if p != nil {
		i.publishers = append(i.publishers, p)
	}
	return i
}

// Inspect parses, classifies and summarizes the batch
func (i *Inspector) Inspect(ctx context.Context, req Request) (*contracts.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = TriggerCLI
	}
	start := i.now()

	validator := NewValidator(req.Lenient, i.log)
	parts, err := validator.ValidateAll(req.Records)
	if err != nil {
		metrics.InspectionErrorsTotal.WithLabelValues(trigger).Inc()
		return nil, fmt.Errorf("validate %s: %w", sourceName(req.Source), err)
	}

	report, err := Summarize(parts)
	if err != nil {
		metrics.InspectionErrorsTotal.WithLabelValues(trigger).Inc()
		return nil, fmt.Errorf("summarize %s: %w", sourceName(req.Source), err)
	}

	insp := &contracts.Inspection{
		ID:          uuid.NewString(),
		Source:      req.Source,
		InspectedAt: start.UTC(),
		Lenient:     req.Lenient,
		Records:     parts,
		Report:      report,
	}

	i.record(trigger, insp, time.Since(start))

	event := i.log.Info()
	if report.Alert {
		event = i.log.Warn()
	}
	event.
		Str("inspection_id", insp.ID).
		Str("source", req.Source).
		Str("trigger", trigger).
		Int("total", report.Total).
		Int("approved", report.ApprovedCount).
		Int("rejected", report.RejectedCount).
		Float64("rejected_pct", contracts.RoundPct(report.RejectedPct)).
		Bool("alert", report.Alert).
		Msg("inspection completed")

	for _, p := range i.publishers {
		p.Publish(insp)
	}

	return insp, nil
}

func (i *Inspector) record(trigger string, insp *contracts.Inspection, elapsed time.Duration) {
	metrics.InspectionsTotal.WithLabelValues(trigger).Inc()
	metrics.InspectionDuration.Observe(elapsed.Seconds())
	metrics.LastRejectionRate.Set(insp.Report.RejectedPct)

	metrics.PartsTotal.WithLabelValues(string(contracts.StatusApproved)).Add(float64(insp.Report.ApprovedCount))
	metrics.PartsTotal.WithLabelValues(string(contracts.StatusRejected)).Add(float64(insp.Report.RejectedCount))

	for _, p := range insp.Records {
		for _, v := range p.Violations {
			metrics.ViolationsTotal.WithLabelValues(string(v.Code)).Inc()
		}
	}

	if insp.Report.Alert {
		metrics.AlertsTotal.Inc()
	}
}

func sourceName(source string) string {
	if source == "" {
		return "batch"
	}
	return source
}
