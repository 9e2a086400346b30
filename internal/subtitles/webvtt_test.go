package subtitles

import (
	"strings"
	"testing"
)

func TestToWebVTTExample(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:04,000\nHello\n\n2\n00:00:05,000 --> 00:00:06,000\nWorld"
	want := "WEBVTT\n\n00:00:01.000 --> 00:00:04.000\nHello\n\n00:00:05.000 --> 00:00:06.000\nWorld\n"
	if got := ToWebVTT(input); got != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", got, want)
	}
}

func TestToWebVTTSkipsShortBlocks(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\nA\n\norphan\n\n3\n00:00:03,500 --> 00:00:04,250\nB\nsecond line"
	got := ToWebVTT(input)
	want := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nA\n\n00:00:03.500 --> 00:00:04.250\nB\nsecond line\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", got, want)
	}
}

func TestToWebVTTCueCountMatchesWellFormedBlocks(t *testing.T) {
	var b strings.Builder
	const n = 37
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString("\n\n")
		}
		b.WriteString("1\n00:01:02,003 --> 00:01:04,005\ntext, with comma")
	}
	b.WriteString("\n\nx")

	got := ToWebVTT(b.String())
	if !strings.HasPrefix(got, "WEBVTT\n\n") {
		t.Fatalf("missing header: %q", got[:20])
	}
	if c := strings.Count(got, "00:01:02.003 --> 00:01:04.005"); c != n {
		t.Fatalf("expected %d timing lines, got %d", n, c)
	}
	if strings.Contains(got, "00:01:02,003") {
		t.Fatal("timing line still contains commas")
	}
	if c := strings.Count(got, "text, with comma"); c != n {
		t.Fatalf("cue text must be preserved byte for byte, got %d copies", c)
	}
}

func TestToWebVTTEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\n  "} {
		if got := ToWebVTT(input); got != "WEBVTT\n" {
			t.Fatalf("ToWebVTT(%q) = %q", input, got)
		}
	}
}

func TestToWebVTTNormalizesCRLF(t *testing.T) {
	input := "1\r\n00:00:01,000 --> 00:00:02,000\r\nHi\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nThere\r\n"
	want := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n\n00:00:03.000 --> 00:00:04.000\nThere\n"
	if got := ToWebVTT(input); got != want {
		t.Fatalf("unexpected output %q", got)
	}
}
