package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"wandlung/internal/logging"
	"wandlung/internal/services"
	"wandlung/internal/services/llm"
)

const (
	ProtocolStructured = "structured"
	ProtocolMarker     = "marker"

	DefaultBatchSize     = 20
	DefaultMaxIterations = 100
	DefaultMaxTokens     = 4096
	// DefaultTemperature matches the provider default used when a request
	// does not carry one.
	DefaultTemperature = 1.0

	commandNext     = "NEXT"
	commandEnd      = "END"
	continueMessage = "CONTINUE"
)

// Outcome describes how an exchange ended.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeAborted Outcome = "aborted"
	OutcomeCeiling Outcome = "ceiling"
)

// Provider completes one assistant turn.
type Provider interface {
	Complete(ctx context.Context, req llm.Completion) (string, error)
}

// Options tunes the exchange. Zero values select defaults.
type Options struct {
	BatchSize     int
	MaxIterations int
	MaxTokens     int
	Protocol      string
}

// Request is a single translation job.
type Request struct {
	Source         string
	TargetLanguage string
	// Temperature is clamped to [0,1]. Nil selects DefaultTemperature.
	Temperature *float64
}

// Result is the translated document plus exchange statistics.
type Result struct {
	Text    string
	Turns   int
	Chunks  int
	Outcome Outcome
}

// Engine runs translations against a provider.
type Engine struct {
	provider Provider
	opts     Options
	logger   *slog.Logger
}

// NewEngine builds an engine. A nil provider makes every call fail with
// services.ErrCredentialMissing.
func NewEngine(provider Provider, opts Options, logger *slog.Logger) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	opts.Protocol = strings.ToLower(strings.TrimSpace(opts.Protocol))
	if opts.Protocol == "" {
		opts.Protocol = ProtocolStructured
	}
	return &Engine{
		provider: provider,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "translation"),
	}
}

// Translate runs the exchange to completion.
func (e *Engine) Translate(ctx context.Context, req Request) (Result, error) {
	var empty Result
	if e.provider == nil {
		return empty, services.Wrap(services.ErrCredentialMissing, "translate", "init", "translation provider key not configured", nil)
	}
	if strings.TrimSpace(req.Source) == "" {
		return empty, services.Wrap(services.ErrValidation, "translate", "init", "source subtitle is empty", nil)
	}
	target := strings.TrimSpace(req.TargetLanguage)
	if target == "" {
		return empty, services.Wrap(services.ErrValidation, "translate", "init", "target language required", nil)
	}
	parse, err := e.replyParser()
	if err != nil {
		return empty, err
	}

	logger := logging.WithContext(ctx, e.logger)
	completion := llm.Completion{
		System:      e.systemPrompt(target),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: req.Source}},
		Temperature: clampTemperature(req.Temperature),
		MaxTokens:   e.opts.MaxTokens,
	}

	var chunks []string
	result := Result{Outcome: OutcomeCeiling}
	for result.Turns < e.opts.MaxIterations {
		result.Turns++
		reply, err := e.provider.Complete(ctx, completion)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return empty, err
			}
			return empty, services.Wrap(services.ErrProvider, "translate", "complete", fmt.Sprintf("turn %d", result.Turns), err)
		}
		text, command, err := parse(reply)
		if err != nil {
			return empty, services.Wrap(services.ErrProtocolViolation, "translate", "parse reply", fmt.Sprintf("turn %d", result.Turns), err)
		}
		if text != "" {
			chunks = append(chunks, text)
		}
		logger.Debug("translation turn",
			logging.Int("turn", result.Turns),
			logging.String("command", command),
			logging.Int("chunk_bytes", len(text)),
		)

		if command == commandEnd {
			result.Outcome = OutcomeDone
			break
		}
		if command != commandNext {
			result.Outcome = OutcomeAborted
			break
		}
		completion.Messages = append(completion.Messages,
			llm.Message{Role: llm.RoleAssistant, Content: reply},
			llm.Message{Role: llm.RoleUser, Content: continueMessage},
		)
	}

	if result.Outcome != OutcomeDone {
		logging.WarnWithContext(logger, "translation ended without completion marker", "translation_incomplete",
			logging.String("outcome", string(result.Outcome)),
			logging.Int("turns", result.Turns),
			logging.String(logging.FieldErrorHint, "inspect the translated track for missing cues"),
			logging.String(logging.FieldImpact, "translated track may be truncated"),
		)
	}
	result.Chunks = len(chunks)
	result.Text = strings.Join(chunks, "\n\n")
	return result, nil
}

func (e *Engine) replyParser() (func(string) (string, string, error), error) {
	switch e.opts.Protocol {
	case ProtocolStructured:
		return parseStructured, nil
	case ProtocolMarker:
		return func(reply string) (string, string, error) {
			text, command := parseMarker(reply)
			return text, command, nil
		}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "translate", "init", fmt.Sprintf("unknown protocol %q", e.opts.Protocol), nil)
	}
}

func (e *Engine) systemPrompt(target string) string {
	n := e.opts.BatchSize
	if e.opts.Protocol == ProtocolMarker {
		return fmt.Sprintf(
			"Translate the following SRT subtitles into %s. "+
				"Translate only %d entries at a time and end your reply with a line containing only %s. "+
				"If I reply with '%s', then continue with the next %d entries. "+
				"When you have finished the job, end your reply with a line containing only %s. "+
				"Keep the SRT numbering and timestamps unchanged.",
			target, n, commandNext, continueMessage, n, commandEnd)
	}
	return fmt.Sprintf(
		"Translate the following SRT subtitles into %s. "+
			"Translate only %d entries at a time and say '%s'. "+
			"If I reply with '%s', then continue with the next %d entries. "+
			"If you've finished the job, then say '%s'. "+
			`Output should be in JSON format with keys: "text", "command". `+
			`Example: {"text": "Translated SRT (must escape newlines)", "command": "%s"}`,
		target, n, commandNext, continueMessage, n, commandEnd, commandNext)
}

func clampTemperature(value *float64) float64 {
	if value == nil {
		return DefaultTemperature
	}
	switch t := *value; {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
