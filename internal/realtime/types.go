package realtime

import (
	"time"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/internal/presenter"
)

// EventType labels a pushed message
type EventType string

const (
	EventInspectionCompleted EventType = "inspection.completed"
	EventInspectionAlert     EventType = "inspection.alert"
)

// Event is the message pushed to every subscriber after an inspection
type Event struct {
	Type         EventType            `json:"type"`
	InspectionID string               `json:"inspection_id"`
	Source       string               `json:"source,omitempty"`
	InspectedAt  time.Time            `json:"inspected_at"`
	Report       presenter.ReportView `json:"report"`
}

// NewEvent builds the event for an inspection. Alerting batches use EventInspectionAlert.
func NewEvent(insp *contracts.Inspection) Event {
	eventType := EventInspectionCompleted
	if insp.Report.Alert {
		eventType = EventInspectionAlert
	}
	return Event{
		Type:         eventType,
		InspectionID: insp.ID,
		Source:       insp.Source,
		InspectedAt:  insp.InspectedAt,
		Report:       presenter.NewReportView(insp.Report),
	}
}
