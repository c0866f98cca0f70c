package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"censorr/internal/config"
	"censorr/internal/ffmpeg"
	"censorr/internal/logging"
	"censorr/internal/services"
	"censorr/internal/timing"
)

const testSRT = `1
00:00:10,000 --> 00:00:11,000
Well damn that!

2
00:00:20,000 --> 00:00:21,500
Nothing to see here.
`

// fakeAudio reports quiet levels inside the applied plan and loud levels
// everywhere else, and materializes the muted output file.
type fakeAudio struct {
	duration    float64
	appliedPlan []timing.Interval
	applyCalls  int
}

func (f *fakeAudio) ProbeDuration(_ context.Context, _ string) (float64, error) {
	return f.duration, nil
}

func (f *fakeAudio) ApplyMutePlan(_ context.Context, _, outputPath string, plan []timing.Interval) error {
	f.applyCalls++
	f.appliedPlan = plan
	return os.WriteFile(outputPath, []byte("muted"), 0o644)
}

func (f *fakeAudio) MeasureSpan(_ context.Context, _ string, start, end float64) (ffmpeg.VolumeSample, error) {
	level := -12.0
	for _, iv := range f.appliedPlan {
		if iv.Overlaps(start, end) {
			level = -70.0
			break
		}
	}
	return ffmpeg.VolumeSample{Start: start, End: end, MeanDB: level}, nil
}

func (f *fakeAudio) MeasureSpans(ctx context.Context, path string, plan []timing.Interval) ([]ffmpeg.VolumeSample, error) {
	samples := make([]ffmpeg.VolumeSample, 0, len(plan))
	for _, iv := range plan {
		sample, err := f.MeasureSpan(ctx, path, iv.Start, iv.End)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func testConfig(t *testing.T, terms string) *config.Config {
	t.Helper()
	base := t.TempDir()
	termsPath := filepath.Join(base, "terms.json")
	if err := os.WriteFile(termsPath, []byte(terms), 0o644); err != nil {
		t.Fatalf("write terms: %v", err)
	}

	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TermsPath = termsPath
	cfg.Audio.Languages = nil
	return &cfg
}

func writeTestSRT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie.srt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, `["damn"]`)
	audio := &fakeAudio{duration: 60.0}
	p := New(cfg, audio, logging.NewNop())

	result, err := p.Run(context.Background(), "/media/movie.wav", writeTestSRT(t, testSRT))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.MatchCount != 1 || result.MaskedCues != 1 {
		t.Fatalf("expected one matched cue, got %+v", result)
	}
	if audio.applyCalls != 1 {
		t.Fatalf("mute must run once, got %d", audio.applyCalls)
	}
	if len(result.Plan) != 1 {
		t.Fatalf("expected one mute interval, got %+v", result.Plan)
	}
	iv := result.Plan[0]
	if iv.Start > 10.0 || iv.End < 11.0 {
		t.Fatalf("plan must cover the matched cue with padding: %+v", iv)
	}

	masked, err := os.ReadFile(result.MaskedSubtitle)
	if err != nil {
		t.Fatalf("read masked srt: %v", err)
	}
	if strings.Contains(string(masked), "damn") {
		t.Fatalf("masked output still contains the term:\n%s", masked)
	}
	if !strings.Contains(string(masked), "****") {
		t.Fatalf("masked output missing asterisks:\n%s", masked)
	}

	report, err := os.ReadFile(result.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "damn") {
		t.Fatalf("report missing matched term:\n%s", report)
	}

	if result.QC == nil || !result.QC.Passed() {
		t.Fatalf("quality control should pass with the fake audio: %+v", result.QC)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, qcReportSidecarName)); err != nil {
		t.Fatalf("qc report sidecar missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, planSidecarName)); !os.IsNotExist(err) {
		t.Fatal("plan sidecar should be cleaned up after a passing run")
	}
}

func TestRunNoMatchesSkipsAudio(t *testing.T) {
	cfg := testConfig(t, `["xylophone"]`)
	audio := &fakeAudio{duration: 60.0}
	p := New(cfg, audio, logging.NewNop())

	result, err := p.Run(context.Background(), "/media/movie.wav", writeTestSRT(t, testSRT))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.MatchCount != 0 {
		t.Fatalf("expected no matches, got %d", result.MatchCount)
	}
	if audio.applyCalls != 0 {
		t.Fatal("audio must not run when nothing matched")
	}
	if len(result.Plan) != 0 || result.MutedMedia != "" {
		t.Fatalf("clean runs produce no plan or muted media: %+v", result)
	}
	if _, err := os.Stat(result.MaskedSubtitle); err != nil {
		t.Fatalf("masked subtitle should still be written: %v", err)
	}
}

func TestMaskSubtitlesOnly(t *testing.T) {
	cfg := testConfig(t, `["damn"]`)
	p := New(cfg, nil, logging.NewNop())

	result, err := p.MaskSubtitles(context.Background(), writeTestSRT(t, testSRT))
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if result.MatchCount != 1 {
		t.Fatalf("expected one match, got %d", result.MatchCount)
	}
	if len(result.Matches) != 1 || result.Matches[0].TargetTerm != "damn" {
		t.Fatalf("unexpected rows %+v", result.Matches)
	}
	if result.Matches[0].StartMS != 10000 || result.Matches[0].EndMS != 11000 {
		t.Fatalf("row should carry cue times in ms: %+v", result.Matches[0])
	}

	original, err := os.ReadFile(result.OriginalSubtitle)
	if err != nil {
		t.Fatalf("original subtitle copy missing: %v", err)
	}
	if string(original) != testSRT {
		t.Fatalf("original subtitle copy must be untouched:\n%s", original)
	}
}

func TestRunReusesRequestIDFromContext(t *testing.T) {
	cfg := testConfig(t, `["damn"]`)
	p := New(cfg, &fakeAudio{duration: 60.0}, logging.NewNop())

	ctx := services.WithRequestID(context.Background(), "job-run-42")
	result, err := p.Run(ctx, "/media/movie.wav", writeTestSRT(t, testSRT))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.RunID != "job-run-42" {
		t.Fatalf("run id must reuse the context request id, got %q", result.RunID)
	}
}

func TestWriteReportWrapsCreateFailure(t *testing.T) {
	err := WriteReport(filepath.Join(t.TempDir(), "missing", "report.csv"), nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected a wrapped transient error, got %v", err)
	}
}

func TestWriteReportFlushesAllRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	rows := []ReportRow{{StartMS: 10000, EndMS: 11000, MatchedText: "damn", TargetTerm: "damn", Score: 100}}
	if err := WriteReport(path, rows); err != nil {
		t.Fatalf("write report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != strings.Join(reportHeader, ",") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
}

func TestBuildMutePlanOnly(t *testing.T) {
	cfg := testConfig(t, `["damn"]`)
	p := New(cfg, nil, logging.NewNop())

	result, err := p.BuildMutePlan(context.Background(), writeTestSRT(t, testSRT), 10.5)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(result.Plan) != 1 {
		t.Fatalf("expected one interval, got %+v", result.Plan)
	}
	if result.Plan[0].End > 10.5 {
		t.Fatalf("plan must be clipped to the duration: %+v", result.Plan[0])
	}
}

func TestRunMissingSubtitleFile(t *testing.T) {
	cfg := testConfig(t, `["damn"]`)
	p := New(cfg, &fakeAudio{duration: 60}, logging.NewNop())

	if _, err := p.Run(context.Background(), "/media/movie.wav", "/nope/missing.srt"); err == nil {
		t.Fatal("missing subtitle file must fail")
	}
}
