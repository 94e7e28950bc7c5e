package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/internal/presenter"
	"github.com/wonny/partqc/internal/quality"
	"github.com/wonny/partqc/internal/scheduler"
	"github.com/wonny/partqc/internal/scheduler/jobs"
	"github.com/wonny/partqc/pkg/config"
	"github.com/wonny/partqc/pkg/logger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <file|url>",
	Short: "Re-inspect a batch on a schedule",
	Long: `Inspects the same source once immediately and then on every tick of the schedule,
printing the statistics line of each run. Alerts are logged at WARN.

Schedules accept standard cron expressions (optionally with seconds) and
descriptors such as "@every 5m" or "@hourly".

Example:
  go run ./cmd/qc watch /data/line1.csv
  go run ./cmd/qc watch /data/line1.csv --schedule "*/10 * * * *"`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchRetryDelay is the pause between attempts of a failed run
const watchRetryDelay = 5 * time.Second

var (
	watchSchedule string
	watchLenient  bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	// Flags
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron schedule (default from QC_WATCH_SCHEDULE)")
	watchCmd.Flags().BoolVar(&watchLenient, "lenient", false, "treat missing measurements as 0 (default from QC_LENIENT)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	source := args[0]

	// 1. Load config
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	schedule := cfg.Inspection.WatchSchedule
	if watchSchedule != "" {
		schedule = watchSchedule
	}
	lenient := cfg.Inspection.Lenient
	if cmd.Flags().Changed("lenient") {
		lenient = watchLenient
	}

	// 2. Job wiring
	out := cmd.OutOrStdout()
	inspector := quality.NewInspector(log.Zerolog()).WithPublisher(&summaryPrinter{out: out})
	sched, job, err := newWatchScheduler(cfg, log, inspector, source, schedule, lenient)
	if err != nil {
		return err
	}

	PrintBanner(out, "Part QC Watch")
	PrintKeyValue(out, "Source", source, 8)
	PrintKeyValue(out, "Schedule", schedule, 8)
	PrintKeyValue(out, "Mode", modeName(lenient), 8)
	PrintSeparator(out)

	// 3. Run now, then on schedule
	sched.Start()
	if err := sched.RunJob(job.Name()); err != nil {
		sched.Stop()
		return err
	}

	<-cmd.Context().Done()
	sched.Stop()

	if stats, ok := sched.GetJobStats()[job.Name()]; ok {
		PrintSuccess(out, fmt.Sprintf("%d runs, %d failed", stats.TotalRuns, stats.FailureCount))
	}
	if history, err := sched.GetJobHistory(job.Name()); err == nil {
		if failed := history.GetFailedResults(); len(failed) > 0 {
			PrintWarning(out, "Last error: "+failed[len(failed)-1].Error)
		}
	}
	if last := job.Last(); last != nil {
		PrintKeyValue(out, "Last run", last.InspectedAt.Local().Format("2006-01-02 15:04:05"), 8)
		PrintKeyValue(out, "Result", presenter.SummaryLine(last.Report), 8)
	}
	return nil
}

// newWatchScheduler registers an InspectionJob for source on a scheduler.
// Every run goes through inspector, so its publishers see watch results too.
func newWatchScheduler(
	cfg *config.Config,
	log *logger.Logger,
	inspector *quality.Inspector,
	source, schedule string,
	lenient bool,
) (*scheduler.Scheduler, *jobs.InspectionJob, error) {
	if err := scheduler.ValidateSchedule(schedule); err != nil {
		return nil, nil, err
	}

	job := jobs.NewInspectionJob(source, schedule, lenient, newLoader(cfg, log, true), inspector, log)

	sched := scheduler.New(log).WithRetry(cfg.HTTP.MaxRetries, watchRetryDelay)
	if err := sched.AddJob(job); err != nil {
		return nil, nil, err
	}
	return sched, job, nil
}

// summaryPrinter writes the statistics line of every completed inspection
type summaryPrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *summaryPrinter) Publish(insp *contracts.Inspection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "[%s] %s\n", insp.InspectedAt.Local().Format("15:04:05"), presenter.SummaryLine(insp.Report))
	if insp.Report.Alert {
		PrintWarning(p.out, presenter.AlertMessage(insp.Report))
	}
}
