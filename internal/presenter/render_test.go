package presenter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wonny/partqc/internal/contracts"
	"github.com/wonny/partqc/internal/quality"
)

func sampleInspection(t *testing.T) *contracts.Inspection {
	t.Helper()

	parts := quality.ClassifyAll([]contracts.PartRecord{
		{ID: "1", SizeCM: 5, WeightG: 75, FinishScore: 9},
		{ID: "2", SizeCM: 15, WeightG: 75, FinishScore: 9},
		{ID: "3", SizeCM: 12.5, WeightG: 60, FinishScore: 8},
		{ID: "4", SizeCM: 15, WeightG: 200, FinishScore: 3},
	})
	report, err := quality.Summarize(parts)
	require.NoError(t, err)

	return &contracts.Inspection{
		ID:          "insp-1",
		Source:      "parts.csv",
		InspectedAt: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		Records:     parts,
		Report:      report,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatTable, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestView_DisplayOrder(t *testing.T) {
	view := NewView(sampleInspection(t))

	var ids []string
	for _, rec := range view.DisplayOrder() {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids, "approved first, then rejected, input order within groups")

	// Records themselves keep input order
	assert.Equal(t, "1", view.Records[0].ID)
}

func TestNewReportView(t *testing.T) {
	report := contracts.QualityReport{
		Total:         3,
		ApprovedCount: 2,
		RejectedCount: 1,
		ApprovedPct:   200.0 / 3,
		RejectedPct:   100.0 / 3,
		Alert:         true,
	}

	view := NewReportView(report)
	assert.Equal(t, 66.67, view.ApprovedPct)
	assert.Equal(t, 33.33, view.RejectedPct)
	assert.Equal(t, "2 (66.67%)", view.Approved)
	assert.Equal(t, "1 (33.33%)", view.Rejected)
	assert.Equal(t, "More than 20% of parts were rejected (33.33%). Review the manufacturing process.", view.AlertMessage)

	report.Alert = false
	assert.Empty(t, NewReportView(report).AlertMessage)
}

func TestNewReportView_RoundingAgrees(t *testing.T) {
	// 1 of 800 sits exactly on a half cent
	report := contracts.QualityReport{
		Total:         800,
		ApprovedCount: 799,
		RejectedCount: 1,
		ApprovedPct:   float64(799) / float64(800) * 100,
		RejectedPct:   float64(1) / float64(800) * 100,
	}

	view := NewReportView(report)
	assert.Equal(t, 0.13, view.RejectedPct)
	assert.Equal(t, "1 (0.13%)", view.Rejected)
	assert.Equal(t, fmt.Sprintf("799 (%.2f%%)", view.ApprovedPct), view.Approved)
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleInspection(t), FormatTable))

	out := buf.String()
	lines := strings.Split(out, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[0], "Weight (g)")
	assert.True(t, strings.HasPrefix(lines[1], "2 "), "first data row is the first approved part")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "size out of bounds (10 to 20 cm)")
	assert.Contains(t, out, "weight out of bounds (50 to 100 g), insufficient finish (7 or below)")
	assert.Contains(t, out, "Total parts inspected: 4 | Approved: 2 (50.00%) | Rejected: 2 (50.00%)")
	assert.Contains(t, out, "More than 20% of parts were rejected (50.00%)")
}

func TestRender_TableWithoutAlert(t *testing.T) {
	parts := quality.ClassifyAll([]contracts.PartRecord{{ID: "1", SizeCM: 15, WeightG: 75, FinishScore: 9}})
	report, err := quality.Summarize(parts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &contracts.Inspection{Records: parts, Report: report}, FormatTable))
	assert.NotContains(t, buf.String(), "More than")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleInspection(t), FormatJSON))

	var view InspectionView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))

	assert.Equal(t, "insp-1", view.ID)
	require.Len(t, view.Records, 4)
	assert.Equal(t, contracts.StatusRejected, view.Records[0].Status)
	assert.Equal(t, []contracts.ViolationCode{contracts.ViolationSize}, view.Records[0].Violations)
	assert.Equal(t, "2 (50.00%)", view.Report.Rejected)
	assert.True(t, view.Report.Alert)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleInspection(t), FormatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	report, ok := doc["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, report["total"])
	assert.Equal(t, true, report["alert"])
}
