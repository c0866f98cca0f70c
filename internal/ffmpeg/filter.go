package ffmpeg

import (
	"fmt"
	"strings"

	"censorr/internal/timing"
)

// MuteFilter builds the audio filter that silences every interval of the
// plan in one ffmpeg pass. The enable conditions are OR-combined with `+`
// so a single volume filter covers the whole plan.
func MuteFilter(plan []timing.Interval) string {
	if len(plan) == 0 {
		return ""
	}
	conditions := make([]string, 0, len(plan))
	for _, iv := range plan {
		conditions = append(conditions, fmt.Sprintf("between(t,%.3f,%.3f)", iv.Start, iv.End))
	}
	return "volume=enable='" + strings.Join(conditions, "+") + "':volume=0"
}
