package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/partqc/internal/loader"
	"github.com/wonny/partqc/internal/presenter"
	"github.com/wonny/partqc/internal/quality"
	"github.com/wonny/partqc/pkg/config"
	"github.com/wonny/partqc/pkg/httputil"
	"github.com/wonny/partqc/pkg/logger"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file|url>",
	Short: "Inspect one batch of parts",
	Long: `Loads a batch of parts, classifies every part and prints the results table,
the statistics line and, when more than 20% of parts were rejected, an alert.

Input formats (by extension or content type):
  .csv          header row + one part per line
  .json         array of objects
  .html, .htm   first <table> with a header row

Required columns: id, size_cm, weight_g, finish_score
(aliases such as "Tamanho (cm)", "Peso (g)" and "Acabamento" are accepted).

Exit status: 0 ok, 1 error, 2 alert with --fail-on-alert.

Example:
  go run ./cmd/qc inspect parts.csv
  go run ./cmd/qc inspect https://plant.local/export/line1.json --format yaml
  go run ./cmd/qc inspect parts.csv --lenient --fail-on-alert`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectFormat      string
	inspectLenient     bool
	inspectFailOnAlert bool
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	// Flags
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "table", "output format (table|json|yaml)")
	inspectCmd.Flags().BoolVar(&inspectLenient, "lenient", false, "treat missing measurements as 0 (default from QC_LENIENT)")
	inspectCmd.Flags().BoolVar(&inspectFailOnAlert, "fail-on-alert", false, "exit with status 2 when the rejection alert fires")
}

func runInspect(cmd *cobra.Command, args []string) error {
	source := args[0]

	format, err := presenter.ParseFormat(inspectFormat)
	if err != nil {
		return err
	}

	// 1. Load config
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	lenient := cfg.Inspection.Lenient
	if cmd.Flags().Changed("lenient") {
		lenient = inspectLenient
	}

	// 2. Load source
	ld := newLoader(cfg, log, false)
	records, err := ld.Load(cmd.Context(), source)
	if err != nil {
		return err
	}

	// 3. Inspect
	inspector := quality.NewInspector(log.Zerolog())
	insp, err := inspector.Inspect(cmd.Context(), quality.Request{
		Source:  source,
		Trigger: quality.TriggerCLI,
		Lenient: lenient,
		Records: records,
	})
	if err != nil {
		return err
	}

	// 4. Render
	if err := presenter.Render(cmd.OutOrStdout(), insp, format); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if inspectFailOnAlert && insp.Report.Alert {
		return errAlert
	}
	return nil
}

// remoteFetchRPS paces requests to remote sources
const remoteFetchRPS = 2

// newLoader builds a loader able to read local files and http(s) URLs.
// Scheduled runs already retry the whole job, so their fetches do not retry.
func newLoader(cfg *config.Config, log *logger.Logger, scheduled bool) *loader.Loader {
	client := httputil.New(cfg, log).WithRateLimit(remoteFetchRPS, 1)
	if scheduled {
		client = client.DisableRetry()
	}
	return loader.New(client, cfg.API.MaxUploadBytes, log.Zerolog())
}
