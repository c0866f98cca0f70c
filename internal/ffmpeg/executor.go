package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"censorr/internal/logging"
	"censorr/internal/services"
	"censorr/internal/timing"
)

// VolumeSample is the measured mean level over one time range.
type VolumeSample struct {
	Start  float64
	End    float64
	MeanDB float64
}

// commandRunner executes an external command and returns its combined
// stdout and stderr separately. Injectable for tests.
type commandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

// Executor wraps the ffmpeg and ffprobe binaries.
type Executor struct {
	ffmpegBin  string
	ffprobeBin string
	logger     *slog.Logger
	run        commandRunner
}

// New constructs an executor for the given binaries. Empty binary names fall
// back to the tools on PATH.
func New(ffmpegBin, ffprobeBin string, logger *slog.Logger) *Executor {
	if strings.TrimSpace(ffmpegBin) == "" {
		ffmpegBin = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBin) == "" {
		ffprobeBin = "ffprobe"
	}
	return &Executor{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		logger:     logging.NewComponentLogger(logger, "ffmpeg"),
		run:        defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *Executor) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// ProbeDuration returns the media duration in seconds via ffprobe.
func (e *Executor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	stdout, stderr, err := e.run(ctx, e.ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", strings.TrimSpace(stderr), err)
	}

	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", "parse ffprobe output", err)
	}
	if payload.Format.Duration == "" {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", "ffprobe reported no duration", nil)
	}
	duration, err := strconv.ParseFloat(payload.Format.Duration, 64)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "probe", "duration", fmt.Sprintf("bad duration %q", payload.Format.Duration), err)
	}
	return duration, nil
}

// ApplyMutePlan silences every plan interval in the input audio and writes
// the result to outputPath. The whole plan is applied in one pass.
func (e *Executor) ApplyMutePlan(ctx context.Context, inputPath, outputPath string, plan []timing.Interval) error {
	if len(plan) == 0 {
		return services.Wrap(services.ErrValidation, "mute", "apply", "mute plan is empty", nil)
	}

	filter := MuteFilter(plan)
	if e.logger != nil {
		e.logger.Info("applying mute plan",
			logging.String("input", inputPath),
			logging.String("output", outputPath),
			logging.Int("intervals", len(plan)),
		)
	}

	_, stderr, err := e.run(ctx, e.ffmpegBin,
		"-i", inputPath,
		"-af", filter,
		"-c:a", "pcm_s16le",
		"-y", outputPath,
	)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "mute", "apply", strings.TrimSpace(stderr), err)
	}
	return nil
}

// MeasureSpan measures the mean volume of [start, end) with volumedetect.
func (e *Executor) MeasureSpan(ctx context.Context, path string, start, end float64) (VolumeSample, error) {
	if end <= start {
		return VolumeSample{}, services.Wrap(services.ErrValidation, "measure", "span",
			fmt.Sprintf("span end %.3f must be after start %.3f", end, start), nil)
	}

	_, stderr, err := e.run(ctx, e.ffmpegBin,
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-i", path,
		"-af", "volumedetect",
		"-f", "null", "-",
	)
	if err != nil {
		return VolumeSample{}, services.Wrap(services.ErrExternalTool, "measure", "span", strings.TrimSpace(stderr), err)
	}

	meanDB, ok := parseMeanVolume(stderr)
	if !ok {
		return VolumeSample{}, services.Wrap(services.ErrExternalTool, "measure", "span", "no mean_volume in volumedetect output", nil)
	}
	return VolumeSample{Start: start, End: end, MeanDB: meanDB}, nil
}

// MeasureSpans measures every interval of the plan in order.
func (e *Executor) MeasureSpans(ctx context.Context, path string, plan []timing.Interval) ([]VolumeSample, error) {
	samples := make([]VolumeSample, 0, len(plan))
	for _, iv := range plan {
		sample, err := e.MeasureSpan(ctx, path, iv.Start, iv.End)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

var meanVolumePattern = regexp.MustCompile(`mean_volume:\s*(-?[0-9]+\.?[0-9]*) dB`)

func parseMeanVolume(stderr string) (float64, bool) {
	match := meanVolumePattern.FindStringSubmatch(stderr)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
