package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/partqc/internal/api"
	"github.com/wonny/partqc/internal/api/handlers"
	"github.com/wonny/partqc/internal/quality"
	"github.com/wonny/partqc/internal/realtime"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the inspection API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health            - Health check
  GET  /metrics           - Prometheus metrics (METRICS_ENABLED)
  GET  /api/rules         - Acceptance rules
  POST /api/inspections   - Inspect an uploaded batch (CSV, JSON or HTML)
  GET  /ws/inspections    - Websocket stream of completed inspections

With --watch (or QC_WATCH_SOURCE) the server also re-inspects that source on
QC_WATCH_SCHEDULE and streams each run on /ws/inspections.

Example:
  go run ./cmd/qc api
  go run ./cmd/qc api --port 9090
  go run ./cmd/qc api --watch ./data/line1.csv
  curl -X POST -H 'Content-Type: text/csv' --data-binary @parts.csv localhost:8080/api/inspections`,
	Args: cobra.NoArgs,
	RunE: runAPIServer,
}

var (
	apiPort  string
	apiWatch string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
	apiCmd.Flags().StringVar(&apiWatch, "watch", "", "file or URL to re-inspect on QC_WATCH_SCHEDULE (default from QC_WATCH_SOURCE)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if apiWatch != "" {
		cfg.Inspection.WatchSource = apiWatch
	}

	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"lenient": cfg.Inspection.Lenient,
	}).Info("Initializing API server")

	// 2. Realtime hub + inspector
	hub := realtime.NewHub(log.Zerolog())
	inspector := quality.NewInspector(log.Zerolog()).WithPublisher(hub)

	// 3. Handler, router, server
	inspectionHandler := handlers.NewInspectionHandler(inspector, cfg.Inspection.Lenient, cfg.API.MaxUploadBytes, log)
	router := api.NewRouter(cfg, inspectionHandler, hub, log)
	server := api.New(cfg, log, router, hub)

	// 4. Optional watched source, published through the same hub
	watchSource := cfg.Inspection.WatchSource
	if watchSource != "" {
		sched, job, err := newWatchScheduler(cfg, log, inspector, watchSource,
			cfg.Inspection.WatchSchedule, cfg.Inspection.Lenient)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		// 즉시 1회 실행 후 스케줄대로 반복
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	PrintBanner(out, "Part QC API Server")
	PrintKeyValue(out, "Address", fmt.Sprintf("http://localhost:%s", cfg.Port), 8)
	PrintKeyValue(out, "Mode", modeName(cfg.Inspection.Lenient), 8)
	PrintSeparator(out)
	PrintList(out, []string{
		"GET  /health",
		"GET  /api/rules",
		"POST /api/inspections",
		"GET  /ws/inspections",
	})
	if watchSource != "" {
		PrintKeyValue(out, "Watching", fmt.Sprintf("%s (%s)", watchSource, cfg.Inspection.WatchSchedule), 8)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// 5. Serve until interrupted
	if err := server.Run(cmd.Context()); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}

func modeName(lenient bool) string {
	if lenient {
		return "lenient (missing measurements count as 0)"
	}
	return "strict"
}
