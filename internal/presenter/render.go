package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/wonny/partqc/internal/contracts"
)

// OutputFormat selects how an inspection is rendered
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseFormat validates a user supplied output format
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (table|json|yaml)", s)
}

// tableColumns mirrors the inspection window
var tableColumns = []string{"ID", "Weight (g)", "Size (cm)", "Finish", "Status", "Error"}

// Render writes the inspection to w in the given format
// ⭐ SSOT: 검사 결과 출력 형식은 이 함수에서만
func Render(w io.Writer, insp *contracts.Inspection, format OutputFormat) error {
	view := NewView(insp)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTable, "":
		return renderTable(w, view, insp.Report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(w io.Writer, view InspectionView, report contracts.QualityReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(tableColumns, "\t"))
	for _, rec := range view.DisplayOrder() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			formatNumber(rec.WeightG),
			formatNumber(rec.SizeCM),
			formatNumber(rec.FinishScore),
			rec.Status,
			rec.Error,
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, SummaryLine(report))

	if report.Alert {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "⚠️  %s\n", AlertMessage(report))
	}

	return nil
}
