package subtitles

import (
	"strings"
	"time"
)

// Segment is a timed span of recognized speech, in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// FromSegments renders speech segments as SRT. Segments with no text are
// dropped and the remaining cues are numbered from 1.
func FromSegments(segments []Segment) string {
	cues := make([]Cue, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		start := secondsToDuration(seg.Start)
		end := secondsToDuration(seg.End)
		if end < start {
			end = start
		}
		cues = append(cues, Cue{Start: start, End: end, Text: text})
	}
	return FormatSRT(cues)
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds*1000+0.5) * time.Millisecond
}
