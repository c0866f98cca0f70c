package main

import (
	"fmt"
	"strconv"

	"censorr/internal/pipeline"
	"censorr/internal/qc"
	"censorr/internal/timing"
)

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64) + "s"
}

func matchTable(rows []pipeline.ReportRow) string {
	if len(rows) == 0 {
		return "No matches."
	}
	headers := []string{"Start", "End", "Matched", "Term", "Score"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			formatSeconds(float64(row.StartMS) / 1000),
			formatSeconds(float64(row.EndMS) / 1000),
			row.MatchedText,
			row.TargetTerm,
			fmt.Sprintf("%.1f", row.Score),
		})
	}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight}
	return renderTable(headers, out, aligns)
}

func planTable(plan []timing.Interval) string {
	if len(plan) == 0 {
		return "Empty mute plan."
	}
	headers := []string{"Start", "End", "Duration", "Cues"}
	out := make([][]string, 0, len(plan))
	for _, iv := range plan {
		out = append(out, []string{
			formatSeconds(iv.Start),
			formatSeconds(iv.End),
			formatSeconds(iv.End - iv.Start),
			fmt.Sprintf("%d", len(iv.SourceCues)),
		})
	}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight}
	return renderTable(headers, out, aligns)
}

func qcTable(report *qc.Report) string {
	if report == nil || len(report.Findings) == 0 {
		return "No quality control samples."
	}
	headers := []string{"Start", "End", "Level", "Result"}
	out := make([][]string, 0, len(report.Findings))
	for _, finding := range report.Findings {
		out = append(out, []string{
			formatSeconds(finding.Sample.Start),
			formatSeconds(finding.Sample.End),
			fmt.Sprintf("%.1f dB", finding.Sample.LevelDB),
			string(finding.Kind),
		})
	}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft}
	return renderTable(headers, out, aligns)
}
