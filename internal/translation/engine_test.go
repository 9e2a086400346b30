package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"wandlung/internal/services"
	"wandlung/internal/services/llm"
	"wandlung/internal/subtitles"
)

// batchingProvider imitates a well-behaved model: it returns the next batch
// of source blocks each turn and signals END with the last one.
type batchingProvider struct {
	batch int
	calls []llm.Completion
}

func (p *batchingProvider) Complete(_ context.Context, req llm.Completion) (string, error) {
	req.Messages = append([]llm.Message(nil), req.Messages...)
	p.calls = append(p.calls, req)

	blocks := strings.Split(strings.TrimSpace(req.Messages[0].Content), "\n\n")
	start := (len(p.calls) - 1) * p.batch
	end := min(start+p.batch, len(blocks))
	translated := make([]string, 0, end-start)
	for _, block := range blocks[start:end] {
		translated = append(translated, "[de] "+block)
	}
	command := commandNext
	if end == len(blocks) {
		command = commandEnd
	}
	encoded, _ := json.Marshal(structuredReply{Text: strings.Join(translated, "\n\n"), Command: command})
	return string(encoded), nil
}

type scriptedProvider struct {
	replies []string
	err     error
	calls   []llm.Completion
}

func (p *scriptedProvider) Complete(_ context.Context, req llm.Completion) (string, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return "", p.err
	}
	if len(p.calls) > len(p.replies) {
		return p.replies[len(p.replies)-1], nil
	}
	return p.replies[len(p.calls)-1], nil
}

func sourceWithEntries(n int) string {
	cues := make([]subtitles.Cue, 0, n)
	for i := 0; i < n; i++ {
		cues = append(cues, subtitles.Cue{
			Start: time.Duration(i) * time.Second,
			End:   time.Duration(i+1) * time.Second,
			Text:  fmt.Sprintf("line %d", i+1),
		})
	}
	return subtitles.FormatSRT(cues)
}

func TestTranslateBatchesInOrder(t *testing.T) {
	source := sourceWithEntries(25)
	provider := &batchingProvider{batch: 10}
	engine := NewEngine(provider, Options{BatchSize: 10}, nil)

	result, err := engine.Translate(context.Background(), Request{Source: source, TargetLanguage: "German"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(provider.calls) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(provider.calls))
	}
	if result.Turns != 3 || result.Chunks != 3 || result.Outcome != OutcomeDone {
		t.Fatalf("unexpected result stats %+v", result)
	}

	blocks := strings.Split(strings.TrimSpace(source), "\n\n")
	for i := range blocks {
		blocks[i] = "[de] " + blocks[i]
	}
	if want := strings.Join(blocks, "\n\n"); result.Text != want {
		t.Fatalf("translated text out of order:\n%s", result.Text)
	}
	if subtitles.CountCues(result.Text) != 25 {
		t.Fatalf("expected 25 cues, got %d", subtitles.CountCues(result.Text))
	}

	first := provider.calls[0]
	if !strings.Contains(first.System, "into German") || !strings.Contains(first.System, "10 entries") {
		t.Fatalf("system prompt missing target or batch: %q", first.System)
	}
	if first.MaxTokens != DefaultMaxTokens || first.Temperature != DefaultTemperature {
		t.Fatalf("unexpected limits %+v", first)
	}
	second := provider.calls[1].Messages
	if len(second) != 3 || second[1].Role != llm.RoleAssistant || second[2].Content != continueMessage {
		t.Fatalf("unexpected second turn conversation %+v", second)
	}
	if len(provider.calls[2].Messages) != 5 {
		t.Fatalf("expected conversation to grow to 5 messages, got %d", len(provider.calls[2].Messages))
	}
}

func TestTranslateStopsAtCeiling(t *testing.T) {
	provider := &scriptedProvider{replies: []string{`{"text":"chunk","command":"NEXT"}`}}
	engine := NewEngine(provider, Options{MaxIterations: 5}, nil)

	result, err := engine.Translate(context.Background(), Request{Source: sourceWithEntries(1), TargetLanguage: "French"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(provider.calls) != 5 || result.Outcome != OutcomeCeiling {
		t.Fatalf("expected ceiling after 5 calls, got %d calls %+v", len(provider.calls), result)
	}
	if result.Text != strings.Repeat("chunk\n\n", 4)+"chunk" {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestTranslateStructuredViolations(t *testing.T) {
	for name, reply := range map[string]string{
		"unknown command": `{"text":"x","command":"MORE"}`,
		"malformed json":  `{"text": "unterminated`,
		"missing command": `{"text":"x"}`,
		"lowercase end":   `{"text":"hola","command":"end"}`,
		"padded next":     `{"text":"hola","command":" Next "}`,
	} {
		t.Run(name, func(t *testing.T) {
			provider := &scriptedProvider{replies: []string{reply}}
			engine := NewEngine(provider, Options{}, nil)
			_, err := engine.Translate(context.Background(), Request{Source: "1\n00:00:00,000 --> 00:00:01,000\nhi\n", TargetLanguage: "Korean"})
			if !errors.Is(err, services.ErrProtocolViolation) {
				t.Fatalf("expected protocol violation, got %v", err)
			}
		})
	}
}

func TestTranslateStructuredToleratesCodeFence(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"```json\n{\"text\":\"hola\",\"command\":\"END\"}\n```"}}
	result, err := NewEngine(provider, Options{}, nil).Translate(context.Background(), Request{Source: "x", TargetLanguage: "Spanish"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if result.Text != "hola" || result.Outcome != OutcomeDone {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestTranslateMarkerProtocol(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"1\n00:00:00,000 --> 00:00:01,000\nuno\n\nNEXT",
		"2\n00:00:01,000 --> 00:00:02,000\ndos\nEND",
	}}
	engine := NewEngine(provider, Options{Protocol: ProtocolMarker}, nil)
	result, err := engine.Translate(context.Background(), Request{Source: sourceWithEntries(2), TargetLanguage: "Spanish"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\nuno\n\n2\n00:00:01,000 --> 00:00:02,000\ndos"
	if result.Text != want || result.Outcome != OutcomeDone || result.Turns != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if strings.Contains(provider.calls[0].System, "JSON") {
		t.Fatalf("marker prompt should not ask for JSON: %q", provider.calls[0].System)
	}
}

func TestTranslateMarkerAbortsWithoutMarker(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"first NEXT", "second without marker", "never requested END"}}
	engine := NewEngine(provider, Options{Protocol: ProtocolMarker}, nil)
	result, err := engine.Translate(context.Background(), Request{Source: "x", TargetLanguage: "Italian"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if result.Outcome != OutcomeAborted || len(provider.calls) != 2 {
		t.Fatalf("expected abort after 2 calls, got %d %+v", len(provider.calls), result)
	}
	if result.Text != "first\n\nsecond without marker" {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestTranslateFailures(t *testing.T) {
	ctx := context.Background()

	_, err := NewEngine(nil, Options{}, nil).Translate(ctx, Request{Source: "x", TargetLanguage: "German"})
	if !errors.Is(err, services.ErrCredentialMissing) {
		t.Fatalf("expected credential missing, got %v", err)
	}

	provider := &scriptedProvider{err: errors.New("connection reset")}
	_, err = NewEngine(provider, Options{}, nil).Translate(ctx, Request{Source: "x", TargetLanguage: "German"})
	if !errors.Is(err, services.ErrProvider) || len(provider.calls) != 1 {
		t.Fatalf("expected provider error after one call, got %v", err)
	}

	_, err = NewEngine(provider, Options{}, nil).Translate(ctx, Request{Source: " ", TargetLanguage: "German"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty source, got %v", err)
	}

	_, err = NewEngine(provider, Options{Protocol: "smoke-signals"}, nil).Translate(ctx, Request{Source: "x", TargetLanguage: "German"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for protocol, got %v", err)
	}
}

func TestClampTemperature(t *testing.T) {
	value := func(v float64) *float64 { return &v }
	tests := []struct {
		in   *float64
		want float64
	}{
		{nil, DefaultTemperature},
		{value(-0.5), 0},
		{value(0.4), 0.4},
		{value(1.7), 1},
	}
	for _, tt := range tests {
		if got := clampTemperature(tt.in); got != tt.want {
			t.Fatalf("clampTemperature(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		reply, text, command string
	}{
		{"hello\nNEXT", "hello", commandNext},
		{"hello END", "hello", commandEnd},
		{"hello\n**END**", "hello", commandEnd},
		{"hello\nNEXT\nEND", "hello", commandEnd},
		{"see you next", "see you next", ""},
		{"THE END of act one", "THE END of act one", ""},
		{"NEXT", "", commandNext},
		{"", "", ""},
	}
	for _, tt := range tests {
		text, command := parseMarker(tt.reply)
		if text != tt.text || command != tt.command {
			t.Fatalf("parseMarker(%q) = (%q,%q), want (%q,%q)", tt.reply, text, command, tt.text, tt.command)
		}
	}
}
