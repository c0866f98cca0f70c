package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"censorr/internal/catalog"
	"censorr/internal/config"
	"censorr/internal/ffmpeg"
	"censorr/internal/fileutil"
	"censorr/internal/language"
	"censorr/internal/logging"
	"censorr/internal/match"
	"censorr/internal/qc"
	"censorr/internal/services"
	"censorr/internal/subtitles"
	"censorr/internal/timing"
)

const (
	controlSpanSeconds  = 1.0
	maxControlSpans     = 5
	planSidecarName     = "mute_plan.json"
	qcReportSidecarName = "qc_report.json"
)

// AudioExecutor is the external tool boundary the pipeline drives.
type AudioExecutor interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ApplyMutePlan(ctx context.Context, inputPath, outputPath string, plan []timing.Interval) error
	MeasureSpan(ctx context.Context, path string, start, end float64) (ffmpeg.VolumeSample, error)
	MeasureSpans(ctx context.Context, path string, plan []timing.Interval) ([]ffmpeg.VolumeSample, error)
}

// Result summarizes one run.
type Result struct {
	RunID            string
	CueCount         int
	MatchCount       int
	MaskedCues       int
	Matches          []ReportRow
	Plan             []timing.Interval
	MuteSeconds      float64
	AudioDuration    float64
	MaskedSubtitle   string
	OriginalSubtitle string
	ReportPath       string
	MutedMedia       string
	QC               *qc.Report
}

// Pipeline wires the censoring stages together.
type Pipeline struct {
	cfg    *config.Config
	audio  AudioExecutor
	logger *slog.Logger
}

// New constructs a pipeline. The audio executor may be nil for
// subtitle-only operations.
func New(cfg *config.Config, audio AudioExecutor, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		audio:  audio,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// analysis carries the subtitle-side stage outputs between steps.
type analysis struct {
	catalog    *catalog.Catalog
	cues       []subtitles.Cue
	maskedCues []subtitles.Cue
	masked     []bool
	spans      [][]match.Span
	rows       []ReportRow
	matchCount int
	maskedN    int
}

// Run executes the full pipeline for one media/subtitle pair and writes the
// masked subtitle, match report, muted audio, and QC sidecars into the
// output directory.
func (p *Pipeline) Run(ctx context.Context, mediaPath, subtitlePath string) (*Result, error) {
	if p.audio == nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "setup", "no audio executor configured", nil)
	}

	ctx, runID := runScope(ctx)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started",
		logging.String("media", mediaPath),
		logging.String("subtitles", subtitlePath),
	)

	outputDir, err := fileutil.EnsureDir(p.cfg.Paths.OutputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "setup", "prepare output directory", err)
	}

	an, err := p.analyze(ctx, subtitlePath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      runID,
		CueCount:   len(an.cues),
		MatchCount: an.matchCount,
		MaskedCues: an.maskedN,
		Matches:    an.rows,
	}

	if err := p.writeSubtitleArtifacts(outputDir, subtitlePath, an, result); err != nil {
		return nil, err
	}

	if findings, err := qc.VerifyMaskedText(an.maskedCues, an.catalog); err != nil {
		logger.Error("masked subtitles still carry catalog terms", logging.Int("findings", len(findings)))
		return nil, err
	}

	if an.matchCount == 0 {
		logger.Info("no matches found, nothing to mute")
		return result, nil
	}

	duration, err := p.audio.ProbeDuration(ctx, mediaPath)
	if err != nil {
		return nil, err
	}
	result.AudioDuration = duration

	plan, err := p.buildPlan(an, duration)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.MuteSeconds = planSeconds(plan)

	planSidecar := filepath.Join(outputDir, planSidecarName)
	if err := WritePlanSidecar(planSidecar, plan); err != nil {
		return nil, err
	}

	mediaBase := filepath.Base(mediaPath)
	result.MutedMedia = filepath.Join(outputDir, "muted_"+mediaBase)
	if err := p.audio.ApplyMutePlan(ctx, mediaPath, result.MutedMedia, plan); err != nil {
		return nil, err
	}
	logger.Info("mute plan applied",
		logging.Int("intervals", len(plan)),
		logging.Float64("mute_seconds", result.MuteSeconds),
	)

	report, err := p.validate(ctx, result.MutedMedia, plan, duration)
	if err != nil {
		return nil, err
	}
	result.QC = report
	if err := writeQCReport(filepath.Join(outputDir, qcReportSidecarName), report); err != nil {
		return nil, err
	}

	if report.Passed() {
		logger.Info("quality control passed", logging.Int("samples", len(report.Findings)))
	} else {
		ok, under, over := report.Counts()
		logger.Warn("quality control flagged samples",
			logging.Int("ok", ok),
			logging.Int("under_muted", under),
			logging.Int("over_attenuated", over),
		)
	}

	if p.cfg.Cleanup.RemoveIntermediate && report.Passed() {
		if err := fileutil.RemoveWithin(outputDir, planSidecar); err != nil {
			logger.Warn("cleanup skipped", logging.Error(err))
		}
	}

	logger.Info("run finished",
		logging.Int("matches", result.MatchCount),
		logging.Int("masked_cues", result.MaskedCues),
	)
	return result, nil
}

// MaskSubtitles runs only the subtitle side: match, mask, and report.
func (p *Pipeline) MaskSubtitles(ctx context.Context, subtitlePath string) (*Result, error) {
	ctx, runID := runScope(ctx)

	outputDir, err := fileutil.EnsureDir(p.cfg.Paths.OutputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mask", "setup", "prepare output directory", err)
	}

	an, err := p.analyze(ctx, subtitlePath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:      runID,
		CueCount:   len(an.cues),
		MatchCount: an.matchCount,
		MaskedCues: an.maskedN,
		Matches:    an.rows,
	}
	if err := p.writeSubtitleArtifacts(outputDir, subtitlePath, an, result); err != nil {
		return nil, err
	}
	return result, nil
}

// BuildMutePlan runs matching and timing only and returns the clipped plan.
// A zero duration means no audio is available to clip against; the probe is
// skipped and intervals keep their padded ends.
func (p *Pipeline) BuildMutePlan(ctx context.Context, subtitlePath string, duration float64) (*Result, error) {
	ctx, runID := runScope(ctx)

	an, err := p.analyze(ctx, subtitlePath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:         runID,
		CueCount:      len(an.cues),
		MatchCount:    an.matchCount,
		MaskedCues:    an.maskedN,
		Matches:       an.rows,
		AudioDuration: duration,
	}
	if an.matchCount == 0 {
		return result, nil
	}

	plan, err := p.buildPlan(an, duration)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.MuteSeconds = planSeconds(plan)
	return result, nil
}

func (p *Pipeline) analyze(ctx context.Context, subtitlePath string) (*analysis, error) {
	ctx = services.WithStage(ctx, "match")
	logger := logging.WithContext(ctx, p.logger)

	cat, err := catalog.Load(p.cfg.Paths.TermsPath, p.cfg.Matching.DefaultFuzzyThreshold, logger)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(subtitlePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "subtitles", "read", subtitlePath, err)
		}
		return nil, services.Wrap(services.ErrTransient, "subtitles", "read", subtitlePath, err)
	}
	cues, err := subtitles.ParseSRT(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "subtitles", "parse", subtitlePath, err)
	}
	cues = p.filterLanguages(cues)
	if len(cues) == 0 {
		return nil, services.Wrap(services.ErrValidation, "subtitles", "parse", "no cues for the selected languages", nil)
	}

	matcher := match.New(cat)
	spans, err := matcher.MatchCues(ctx, cues, p.cfg.MatchWorkers())
	if err != nil {
		return nil, err
	}

	an := &analysis{
		catalog:    cat,
		cues:       cues,
		maskedCues: make([]subtitles.Cue, len(cues)),
		masked:     make([]bool, len(cues)),
		spans:      spans,
	}
	for i, cue := range cues {
		maskSpans := make([]subtitles.Span, 0, len(spans[i]))
		for _, span := range spans[i] {
			maskSpans = append(maskSpans, subtitles.Span{Start: span.CharStart, End: span.CharEnd})
		}
		maskedCue, wasMasked := subtitles.MaskCue(cue, maskSpans)
		an.maskedCues[i] = maskedCue
		an.masked[i] = wasMasked
		if wasMasked {
			an.maskedN++
		}
		an.matchCount += len(spans[i])
		an.rows = append(an.rows, buildReportRows(cue, maskedCue, spans[i])...)
	}

	logger.Info("matching finished",
		logging.Int("cues", len(cues)),
		logging.Int("matches", an.matchCount),
		logging.Int("masked_cues", an.maskedN),
	)
	return an, nil
}

// runScope binds a correlation identifier to the context. A request ID
// already present, set by the queue worker, is reused so job logs and run
// artifacts share one identifier.
func runScope(ctx context.Context) (context.Context, string) {
	if id, ok := services.RequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return services.WithRequestID(ctx, id), id
}

// writeSubtitleArtifacts writes the masked subtitle, a copy of the untouched
// source subtitle, and the match report into the output directory.
func (p *Pipeline) writeSubtitleArtifacts(outputDir, subtitlePath string, an *analysis, result *Result) error {
	base := strings.TrimSuffix(filepath.Base(subtitlePath), filepath.Ext(subtitlePath))

	result.MaskedSubtitle = filepath.Join(outputDir, base+".masked.srt")
	if err := os.WriteFile(result.MaskedSubtitle, subtitles.FormatSRT(an.maskedCues), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "mask", "write", "write masked subtitles", err)
	}

	result.OriginalSubtitle = filepath.Join(outputDir, base+".original.srt")
	if err := fileutil.CopyFile(subtitlePath, result.OriginalSubtitle); err != nil {
		return services.Wrap(services.ErrTransient, "mask", "write", "preserve original subtitles", err)
	}

	result.ReportPath = filepath.Join(outputDir, base+".matches.csv")
	return WriteReport(result.ReportPath, an.rows)
}

func (p *Pipeline) buildPlan(an *analysis, duration float64) ([]timing.Interval, error) {
	intervals := timing.Resolve(an.cues, an.masked, an.spans, p.cfg.Timing.MergeToleranceSeconds)
	return timing.BuildPlan(intervals, p.cfg.Timing.GuardBandSeconds, p.cfg.Timing.MergeToleranceSeconds, duration)
}

func (p *Pipeline) validate(ctx context.Context, mutedPath string, plan []timing.Interval, duration float64) (*qc.Report, error) {
	muteSamples, err := p.audio.MeasureSpans(ctx, mutedPath, plan)
	if err != nil {
		return nil, err
	}

	samples := make([]qc.Sample, 0, len(muteSamples)+maxControlSpans)
	for _, s := range muteSamples {
		samples = append(samples, qc.Sample{Start: s.Start, End: s.End, LevelDB: s.MeanDB})
	}
	for _, span := range qc.SelectControlSpans(plan, duration, controlSpanSeconds, maxControlSpans) {
		sample, err := p.audio.MeasureSpan(ctx, mutedPath, span.Start, span.End)
		if err != nil {
			return nil, err
		}
		samples = append(samples, qc.Sample{Start: sample.Start, End: sample.End, LevelDB: sample.MeanDB})
	}

	report := qc.Validate(samples, plan, p.cfg.QC.ThresholdDB)
	return &report, nil
}

func (p *Pipeline) filterLanguages(cues []subtitles.Cue) []subtitles.Cue {
	filters := p.cfg.Audio.Languages
	if len(filters) == 0 {
		return cues
	}
	kept := cues[:0:0]
	for _, cue := range cues {
		if cue.Language == "" || language.Matches(cue.Language, filters) {
			kept = append(kept, cue)
		}
	}
	return kept
}

func planSeconds(plan []timing.Interval) float64 {
	var total float64
	for _, iv := range plan {
		total += iv.End - iv.Start
	}
	return total
}

type planWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// WritePlanSidecar serializes the mute plan as a JSON window list.
func WritePlanSidecar(path string, plan []timing.Interval) error {
	payload := make([]planWindow, 0, len(plan))
	for _, iv := range plan {
		payload = append(payload, planWindow{Start: iv.Start, End: iv.End})
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, "mute-plan", "write", "encode plan sidecar", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "mute-plan", "write", "write plan sidecar", err)
	}
	return nil
}

// ReadPlanSidecar loads a mute plan written by WritePlanSidecar.
func ReadPlanSidecar(path string) ([]timing.Interval, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "mute-plan", "read", path, err)
		}
		return nil, services.Wrap(services.ErrTransient, "mute-plan", "read", path, err)
	}
	var payload []planWindow
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "mute-plan", "read", "decode plan sidecar", err)
	}
	plan := make([]timing.Interval, 0, len(payload))
	for _, w := range payload {
		plan = append(plan, timing.Interval{Start: w.Start, End: w.End})
	}
	return plan, nil
}

// ValidateMuted measures a muted file against an existing plan and
// classifies every sample. Used by the standalone qc command.
func (p *Pipeline) ValidateMuted(ctx context.Context, mutedPath string, plan []timing.Interval) (*qc.Report, error) {
	if p.audio == nil {
		return nil, services.Wrap(services.ErrConfiguration, "qc", "setup", "no audio executor configured", nil)
	}
	duration, err := p.audio.ProbeDuration(ctx, mutedPath)
	if err != nil {
		return nil, err
	}
	return p.validate(ctx, mutedPath, plan, duration)
}

func writeQCReport(path string, report *qc.Report) error {
	type sample struct {
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		LevelDB float64 `json:"level_db"`
		Kind    string  `json:"kind"`
	}
	payload := struct {
		ThresholdDB float64  `json:"threshold_db"`
		Passed      bool     `json:"passed"`
		Samples     []sample `json:"samples"`
	}{
		ThresholdDB: report.ThresholdDB,
		Passed:      report.Passed(),
	}
	for _, f := range report.Findings {
		payload.Samples = append(payload.Samples, sample{
			Start:   f.Sample.Start,
			End:     f.Sample.End,
			LevelDB: f.Sample.LevelDB,
			Kind:    string(f.Kind),
		})
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, "qc", "write", "encode qc report", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "qc", "write", "write qc report", err)
	}
	return nil
}
