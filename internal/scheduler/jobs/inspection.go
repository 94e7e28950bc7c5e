package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/internal/quality"
	"github.com/wonny/partqc/internal/scheduler"
	"github.com/wonny/partqc/pkg/logger"
)

// RecordLoader reads the raw rows of one source
type RecordLoader interface {
	Load(ctx context.Context, source string) ([]contracts.RawRecord, error)
}

// InspectionJob re-inspects one source on a schedule
type InspectionJob struct {
	source    string
	schedule  string
	lenient   bool
	loader    RecordLoader
	inspector *quality.Inspector
	logger    *logger.Logger

	mu   sync.RWMutex
	last *contracts.Inspection
}

// NewInspectionJob creates a new inspection job
func NewInspectionJob(
	source, schedule string,
	lenient bool,
	loader RecordLoader,
	inspector *quality.Inspector,
	log *logger.Logger,
) *InspectionJob {
	return &InspectionJob{
		source:    source,
		schedule:  schedule,
		lenient:   lenient,
		loader:    loader,
		inspector: inspector,
		logger:    log,
	}
}

// Name returns the job name
func (j *InspectionJob) Name() string {
	return "inspection:" + j.source
}

// Schedule returns the cron schedule
func (j *InspectionJob) Schedule() string {
	return j.schedule
}

// Run loads and inspects the source once.
// Load failures are retried; malformed rows are not.
func (j *InspectionJob) Run(ctx context.Context) error {
	j.logger.WithField("source", j.source).Debug("Starting scheduled inspection")

	records, err := j.loader.Load(ctx, j.source)
	if err != nil {
		return fmt.Errorf("load %s: %w", j.source, err)
	}

	insp, err := j.inspector.Inspect(ctx, quality.Request{
		Source:  j.source,
		Trigger: quality.TriggerWatch,
		Lenient: j.lenient,
		Records: records,
	})
	if err != nil {
		if contracts.IsInvalidInput(err) {
			return scheduler.Permanent(err)
		}
		return err
	}

	j.mu.Lock()
	j.last = insp
	j.mu.Unlock()

	return nil
}

// Last returns the most recent successful inspection, or nil
func (j *InspectionJob) Last() *contracts.Inspection {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}
