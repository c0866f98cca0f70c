package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"censorr/internal/queue"
	"censorr/internal/services"
)

func TestWrapIncludesStageContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "audio-mute", "apply filter", "ffmpeg exited abnormally", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio-mute", "apply filter", "ffmpeg exited abnormally", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestFailureStatusClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want queue.Status
	}{
		{"configuration", services.Wrap(services.ErrConfiguration, "catalog", "load", "bad threshold", nil), queue.StatusReview},
		{"timing", services.Wrap(services.ErrTiming, "mute-plan", "clip", "degenerate interval", nil), queue.StatusFailed},
		{"external", services.Wrap(services.ErrExternalTool, "audio-mute", "run", "exit 1", nil), queue.StatusFailed},
		{"validation", services.Wrap(services.ErrValidation, "qc", "verify", "residual profanity", nil), queue.StatusReview},
	}
	for _, tc := range cases {
		if got := services.FailureStatus(tc.err); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := services.WithJobID(context.Background(), 7)
	ctx = services.WithStage(ctx, "masking")
	ctx = services.WithRequestID(ctx, "run-abc")

	if id, ok := services.JobIDFromContext(ctx); !ok || id != 7 {
		t.Fatalf("unexpected job id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "masking" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "run-abc" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
