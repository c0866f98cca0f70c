package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"

	"censorr/internal/match"
	"censorr/internal/services"
	"censorr/internal/subtitles"
)

// ReportRow is one accepted match in the per-run CSV report.
type ReportRow struct {
	StartMS      int64
	EndMS        int64
	MatchedText  string
	TargetTerm   string
	Score        float64
	OriginalText string
	MaskedText   string
}

var reportHeader = []string{
	"start_ms",
	"end_ms",
	"matched_text",
	"target_word",
	"score",
	"original_text",
	"masked_text",
}

// WriteReport writes the match rows as CSV. An empty run still produces a
// header-only file so downstream tooling can rely on its presence.
func WriteReport(path string, rows []ReportRow) error {
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "report", "write", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeader); err != nil {
		return services.Wrap(services.ErrTransient, "report", "write", "write header", err)
	}
	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.StartMS),
			fmt.Sprintf("%d", row.EndMS),
			row.MatchedText,
			row.TargetTerm,
			fmt.Sprintf("%.1f", row.Score),
			row.OriginalText,
			row.MaskedText,
		}
		if err := writer.Write(record); err != nil {
			return services.Wrap(services.ErrTransient, "report", "write", "write row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return services.Wrap(services.ErrTransient, "report", "write", "flush csv", err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrTransient, "report", "write", path, err)
	}
	return nil
}

func buildReportRows(cue, maskedCue subtitles.Cue, spans []match.Span) []ReportRow {
	if len(spans) == 0 {
		return nil
	}
	projection := subtitles.Project(cue.Text)
	rows := make([]ReportRow, 0, len(spans))
	for _, span := range spans {
		matched := ""
		if span.CharStart >= 0 && span.CharEnd <= len(projection.Plain) && span.CharStart < span.CharEnd {
			matched = projection.Plain[span.CharStart:span.CharEnd]
		}
		rows = append(rows, ReportRow{
			StartMS:      secondsToMS(cue.Start),
			EndMS:        secondsToMS(cue.End),
			MatchedText:  matched,
			TargetTerm:   span.Term,
			Score:        span.Score,
			OriginalText: cue.Text,
			MaskedText:   maskedCue.Text,
		})
	}
	return rows
}

func secondsToMS(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
