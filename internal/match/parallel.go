package match

import (
	"context"
	"runtime"
	"sync"

	"censorr/internal/subtitles"
)

// MatchCues scans every cue, fanning out across at most workers goroutines
// (0 means one per CPU). Results come back indexed by position in cues, so
// downstream masking sees stable cue order. Cancellation is cooperative at
// cue granularity: in-flight cues finish, no new cue starts once ctx is done.
func (m *Matcher) MatchCues(ctx context.Context, cues []subtitles.Cue, workers int) ([][]Span, error) {
	results := make([][]Span, len(cues))
	if len(cues) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(cues) {
		workers = len(cues)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range indices {
				results[idx] = m.MatchCue(cues[idx])
			}
		}()
	}

	var cancelled error
feed:
	for idx := range cues {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case indices <- idx:
		}
	}
	close(indices)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}
