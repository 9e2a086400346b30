package subtitles

import "strings"

// ToWebVTT converts SRT text to WebVTT.
//
// Blocks are separated by a blank line. The first line of each block (the cue
// index) is dropped, the timing line has its commas replaced by periods, and
// the remaining text lines are copied unchanged. Blocks with fewer than two
// lines are skipped. The conversion never fails; malformed input yields fewer
// cues.
func ToWebVTT(srt string) string {
	srt = strings.ReplaceAll(srt, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(srt), "\n\n")

	lines := []string{"WEBVTT", ""}
	for _, block := range blocks {
		blockLines := strings.Split(block, "\n")
		if len(blockLines) < 2 {
			continue
		}
		lines = append(lines, strings.ReplaceAll(blockLines[1], ",", "."))
		lines = append(lines, blockLines[2:]...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
