package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"censorr/internal/logging"
	"censorr/internal/queue"
	"censorr/internal/services"
)

const defaultHeartbeatInterval = 15 * time.Second

// Worker drains the job queue one item at a time, running the pipeline for
// each claimed job.
type Worker struct {
	store     *queue.Store
	pipeline  *Pipeline
	logger    *slog.Logger
	heartbeat time.Duration
}

// NewWorker constructs a queue worker.
func NewWorker(store *queue.Store, p *Pipeline, logger *slog.Logger) *Worker {
	return &Worker{
		store:     store,
		pipeline:  p,
		logger:    logging.NewComponentLogger(logger, "worker"),
		heartbeat: defaultHeartbeatInterval,
	}
}

// ProcessNext claims and runs the oldest pending job. It returns false when
// the queue is empty. Job failures are persisted on the item, not returned;
// only infrastructure errors (store access) propagate.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	item, err := w.store.NextPending(ctx)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	ctx = services.WithJobID(ctx, item.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, w.logger).With(logging.String("title", item.Title))
	logger.Info("job started", logging.String("media", item.MediaPath))

	item.SetProgress("Processing", "pipeline running", 0)
	if err := w.store.Update(ctx, item); err != nil {
		return true, err
	}

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	var hbDone sync.WaitGroup
	hbDone.Add(1)
	go w.heartbeatLoop(hbCtx, &hbDone, item.ID)

	result, runErr := w.pipeline.Run(ctx, item.MediaPath, item.SubtitlePath)
	stopHeartbeat()
	hbDone.Wait()
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			// Leave the item claimable for the next run.
			item.Status = queue.StatusPending
			item.SetProgress("", "interrupted", 0)
			item.LastHeartbeat = nil
			if err := w.store.Update(ctx, item); err != nil {
				return true, err
			}
			return true, runErr
		}
		status := services.FailureStatus(runErr)
		if status == queue.StatusReview {
			item.SetReview(runErr.Error())
		} else {
			item.SetFailed(runErr.Error())
		}
		logger.Error("job failed",
			logging.Error(runErr),
			logging.String("status", string(status)),
			logging.String(logging.FieldEventType, "job_failed"),
		)
		if err := w.store.Update(ctx, item); err != nil {
			return true, err
		}
		return true, nil
	}

	item.Status = queue.StatusCompleted
	item.RunID = result.RunID
	item.MaskedSubtitle = result.MaskedSubtitle
	item.MutedMedia = result.MutedMedia
	item.ReportPath = result.ReportPath
	item.MatchCount = result.MatchCount
	item.MuteSeconds = result.MuteSeconds
	item.SetProgress("Completed", "pipeline finished", 100)
	if result.QC != nil && !result.QC.Passed() {
		item.SetReview("quality control flagged samples, see qc report")
	}
	if err := w.store.Update(ctx, item); err != nil {
		return true, err
	}
	logger.Info("job finished",
		logging.Int("matches", result.MatchCount),
		logging.Float64("mute_seconds", result.MuteSeconds),
	)
	return true, nil
}

// heartbeatLoop touches the item's heartbeat column until the context is
// cancelled, keeping the job visible as alive to ResetStuckProcessing.
func (w *Worker) heartbeatLoop(ctx context.Context, wg *sync.WaitGroup, itemID int64) {
	defer wg.Done()
	ticker := time.NewTicker(w.heartbeat)
	defer ticker.Stop()

	logger := logging.WithContext(ctx, w.logger)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.store.UpdateHeartbeat(ctx, itemID); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Warn("heartbeat update failed", logging.Error(err))
			}
		}
	}
}

// RunAll processes jobs until the queue drains or the context is cancelled.
// Returns the number of jobs processed.
func (w *Worker) RunAll(ctx context.Context) (int, error) {
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		ok, err := w.ProcessNext(ctx)
		if err != nil {
			return processed, err
		}
		if !ok {
			return processed, nil
		}
		processed++
	}
}

// Watch polls the queue until the context is cancelled, sleeping between
// empty polls.
func (w *Worker) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ok, err := w.ProcessNext(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("queue poll failed", logging.Error(err))
		}
		if ok {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
