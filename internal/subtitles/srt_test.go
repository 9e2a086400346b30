package subtitles

import (
	"testing"
	"time"
)

func TestParseAndFormatSRT(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:04,500\nHello\nthere\n\n7\n01:02:03,004 --> 01:02:05,000 X1:10\nWorld\n"
	cues := ParseSRT(input)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Start != time.Second || cues[0].End != 4500*time.Millisecond || cues[0].Text != "Hello\nthere" {
		t.Fatalf("unexpected first cue: %#v", cues[0])
	}
	wantStart := time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond
	if cues[1].Index != 2 || cues[1].Start != wantStart {
		t.Fatalf("unexpected second cue: %#v", cues[1])
	}

	out := FormatSRT(cues)
	want := "1\n00:00:01,000 --> 00:00:04,500\nHello\nthere\n\n2\n01:02:03,004 --> 01:02:05,000\nWorld\n"
	if out != want {
		t.Fatalf("FormatSRT mismatch:\n%q\nwant\n%q", out, want)
	}
}

func TestCountCuesAndBounds(t *testing.T) {
	input := "1\n00:00:02,000 --> 00:00:03,000\nA\n\n2\n00:00:01,000 --> 00:00:09,250\nB\n\n\n"
	if got := CountCues(input); got != 2 {
		t.Fatalf("CountCues = %d", got)
	}
	first, last := Bounds(input)
	if first != time.Second || last != 9250*time.Millisecond {
		t.Fatalf("Bounds = %s, %s", first, last)
	}
	if CountCues("  ") != 0 {
		t.Fatal("expected zero cues for blank content")
	}
}

func TestValidate(t *testing.T) {
	if issues := Validate(""); len(issues) != 1 || issues[0] != "empty_subtitle" {
		t.Fatalf("unexpected issues for empty: %v", issues)
	}
	if issues := Validate("just text"); len(issues) != 1 || issues[0] != "no_valid_timestamps" {
		t.Fatalf("unexpected issues for text: %v", issues)
	}
	if issues := Validate("1\n00:00:05,000 --> 00:00:01,000\nBackwards"); len(issues) != 1 {
		t.Fatalf("expected backwards cue issue, got %v", issues)
	}
	if issues := Validate("1\n00:00:01,000 --> 00:00:02,000\nOk"); len(issues) != 0 {
		t.Fatalf("expected clean validation, got %v", issues)
	}
}

func TestFromSegments(t *testing.T) {
	got := FromSegments([]Segment{
		{Start: 0, End: 1.5, Text: " Hello "},
		{Start: 1.5, End: 1.2, Text: "clamped"},
		{Start: 2, End: 3, Text: "   "},
		{Start: 61.0004, End: 62.9996, Text: "World"},
	})
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello\n\n" +
		"2\n00:00:01,500 --> 00:00:01,500\nclamped\n\n" +
		"3\n00:01:01,000 --> 00:01:03,000\nWorld\n"
	if got != want {
		t.Fatalf("FromSegments mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestParseSRTTimestampRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "12:00", "aa:bb:cc,ddd", "00:00:01"} {
		if _, err := parseSRTTimestamp(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
	if d, err := parseSRTTimestamp("00:00:01.250"); err != nil || d != 1250*time.Millisecond {
		t.Fatalf("period separator: %s %v", d, err)
	}
}
