package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const snippetLimit = 160

// DecodeJSON fills target from a model reply. Replies are tried as-is, then
// with a markdown fence removed, then as the outermost {...} or [...] span.
// The error reports the last attempt.
func DecodeJSON(reply string, target any) error {
	attempts := jsonCandidates(reply)
	if len(attempts) == 0 {
		return errors.New("empty payload")
	}
	var err error
	for _, candidate := range attempts {
		if err = json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w (payload snippet: %s)", err, Snippet(attempts[len(attempts)-1]))
}

// jsonCandidates lists distinct non-empty decodings to try, most literal first.
func jsonCandidates(reply string) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, seen := range out {
			if seen == s {
				return
			}
		}
		out = append(out, s)
	}

	add(reply)
	unfenced := unfence(strings.TrimSpace(reply))
	add(unfenced)
	for _, pair := range [...][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(unfenced, pair[0])
		end := strings.LastIndex(unfenced, pair[1])
		if start >= 0 && end > start {
			add(unfenced[start : end+1])
			break
		}
	}
	return out
}

// unfence removes a ``` or ```json fence around s.
func unfence(s string) string {
	body, ok := strings.CutPrefix(s, "```")
	if !ok {
		return s
	}
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	if i := strings.LastIndex(body, "```"); i >= 0 {
		body = body[:i]
	}
	return strings.TrimSpace(body)
}

// Snippet collapses whitespace and truncates s for log and error messages.
func Snippet(s string) string {
	clean := strings.Join(strings.Fields(s), " ")
	if clean == "" {
		return "<empty>"
	}
	if runes := []rune(clean); len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "..."
	}
	return clean
}
