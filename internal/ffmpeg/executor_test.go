package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"censorr/internal/logging"
	"censorr/internal/services"
	"censorr/internal/timing"
)

func TestMuteFilter(t *testing.T) {
	plan := []timing.Interval{
		{Start: 10.0, End: 11.0},
		{Start: 4.9, End: 5.25},
	}
	got := MuteFilter(plan)
	want := "volume=enable='between(t,10.000,11.000)+between(t,4.900,5.250)':volume=0"
	if got != want {
		t.Fatalf("filter mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestMuteFilterEmptyPlan(t *testing.T) {
	if got := MuteFilter(nil); got != "" {
		t.Fatalf("empty plan should build no filter, got %q", got)
	}
}

func TestProbeDuration(t *testing.T) {
	exec := New("", "", logging.NewNop())
	var gotName string
	var gotArgs []string
	exec.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, string, error) {
		gotName = name
		gotArgs = args
		return `{"format":{"duration":"92.416000"}}`, "", nil
	})

	duration, err := exec.ProbeDuration(context.Background(), "/audio.wav")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if duration != 92.416 {
		t.Fatalf("expected 92.416, got %v", duration)
	}
	if gotName != "ffprobe" {
		t.Fatalf("expected ffprobe, got %s", gotName)
	}
	if gotArgs[len(gotArgs)-1] != "/audio.wav" {
		t.Fatalf("input path must be last arg: %v", gotArgs)
	}
}

func TestProbeDurationMissingField(t *testing.T) {
	exec := New("", "", logging.NewNop())
	exec.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return `{"format":{}}`, "", nil
	})
	if _, err := exec.ProbeDuration(context.Background(), "/audio.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestApplyMutePlanBuildsSinglePass(t *testing.T) {
	exec := New("/opt/ffmpeg", "", logging.NewNop())
	var gotName string
	var gotArgs []string
	exec.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, string, error) {
		gotName = name
		gotArgs = args
		return "", "", nil
	})

	plan := []timing.Interval{{Start: 1.0, End: 2.0}, {Start: 3.0, End: 4.0}}
	if err := exec.ApplyMutePlan(context.Background(), "/in.wav", "/out.wav", plan); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if gotName != "/opt/ffmpeg" {
		t.Fatalf("expected configured binary, got %s", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "between(t,1.000,2.000)+between(t,3.000,4.000)") {
		t.Fatalf("both intervals must share one filter: %s", joined)
	}
	if !strings.Contains(joined, "-c:a pcm_s16le") {
		t.Fatalf("expected pcm output codec: %s", joined)
	}
}

func TestApplyMutePlanRejectsEmptyPlan(t *testing.T) {
	exec := New("", "", logging.NewNop())
	err := exec.ApplyMutePlan(context.Background(), "/in.wav", "/out.wav", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMeasureSpanParsesVolumedetect(t *testing.T) {
	exec := New("", "", logging.NewNop())
	exec.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		stderr := "[Parsed_volumedetect_0 @ 0x1] n_samples: 44100\n" +
			"[Parsed_volumedetect_0 @ 0x1] mean_volume: -23.4 dB\n" +
			"[Parsed_volumedetect_0 @ 0x1] max_volume: -5.0 dB\n"
		return "", stderr, nil
	})

	sample, err := exec.MeasureSpan(context.Background(), "/muted.wav", 5.0, 5.1)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if sample.MeanDB != -23.4 || sample.Start != 5.0 || sample.End != 5.1 {
		t.Fatalf("unexpected sample %+v", sample)
	}
}

func TestMeasureSpanRejectsDegenerateRange(t *testing.T) {
	exec := New("", "", logging.NewNop())
	if _, err := exec.MeasureSpan(context.Background(), "/muted.wav", 2.0, 2.0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMeasureSpansTranslatesPlan(t *testing.T) {
	exec := New("", "", logging.NewNop())
	calls := 0
	exec.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		calls++
		return "", "mean_volume: -60.0 dB", nil
	})

	plan := []timing.Interval{{Start: 1, End: 2}, {Start: 3, End: 4}}
	samples, err := exec.MeasureSpans(context.Background(), "/muted.wav", plan)
	if err != nil {
		t.Fatalf("measure spans: %v", err)
	}
	if calls != 2 || len(samples) != 2 {
		t.Fatalf("expected one measurement per interval: calls=%d samples=%d", calls, len(samples))
	}
}
