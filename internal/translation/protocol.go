package translation

import (
	"fmt"
	"strings"

	"wandlung/internal/services/llm"
)

type structuredReply struct {
	Text    string `json:"text"`
	Command string `json:"command"`
}

// parseStructured decodes a {"text","command"} record. The command must be
// exactly NEXT or END; case or whitespace variants are rejected.
func parseStructured(reply string) (string, string, error) {
	var decoded structuredReply
	if err := llm.DecodeJSON(reply, &decoded); err != nil {
		return "", "", fmt.Errorf("decode reply: %w", err)
	}
	switch decoded.Command {
	case commandNext, commandEnd:
	default:
		return "", "", fmt.Errorf("unsupported command %q", decoded.Command)
	}
	return strings.TrimSpace(decoded.Text), decoded.Command, nil
}

// parseMarker strips trailing NEXT/END markers from a free-text reply.
// The returned command is empty when no marker is present.
func parseMarker(reply string) (string, string) {
	text := strings.TrimSpace(strings.ReplaceAll(reply, "\r\n", "\n"))
	command := ""
	for {
		idx := strings.LastIndexAny(text, " \t\n")
		last := text[idx+1:]
		token := strings.Trim(last, "'\"`*[]().!:")
		if token != commandNext && token != commandEnd {
			break
		}
		// END wins when a reply carries both.
		if command == "" || token == commandEnd {
			command = token
		}
		text = strings.TrimSpace(text[:idx+1])
		if text == "" {
			break
		}
	}
	return text, command
}
