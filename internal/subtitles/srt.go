package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSRT converts SRT file content into cues. Cue indexes are reassigned
// sequentially from zero regardless of the numbering in the file; blocks
// without a valid timing line are skipped.
func ParseSRT(data []byte) ([]Cue, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	var cues []Cue
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 {
			continue
		}
		start := 0
		if isNumeric(lines[start]) {
			start++
		}
		if start >= len(lines) || !strings.Contains(lines[start], "-->") {
			continue
		}
		parts := strings.Split(lines[start], "-->")
		if len(parts) != 2 {
			continue
		}
		startSec, err := parseSRTTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", len(cues), err)
		}
		endSec, err := parseSRTTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("cue %d: %w", len(cues), err)
		}
		text := strings.Join(lines[start+1:], "\n")
		cues = append(cues, Cue{
			Index: len(cues),
			Start: startSec,
			End:   endSec,
			Text:  text,
		})
	}
	return cues, nil
}

// FormatSRT serializes cues back into SRT content with 1-based numbering.
func FormatSRT(cues []Cue) []byte {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(formatSRTTimestamp(cue.Start))
		b.WriteString(" --> ")
		b.WriteString(formatSRTTimestamp(cue.End))
		b.WriteByte('\n')
		b.WriteString(cue.Text)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// SRT uses a comma before milliseconds; tolerate a period.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func formatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	hours := totalMillis / 3600000
	totalMillis %= 3600000
	minutes := totalMillis / 60000
	totalMillis %= 60000
	secs := totalMillis / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}
