package llm

// Roles used in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is a provider-neutral request for the next assistant turn.
type Completion struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}
