package orchestrator

import (
	"strings"

	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/ai/llm/memoryx"
)

// buildMessages turns a session's history plus the new user message into
// the ordered sequence a generation call expects: each stored turn mapped
// in order, the new message last. An empty or whitespace-only message is
// rejected here, before any external call happens.
func buildMessages(history []memoryx.Turn, message string) ([]llm.Message, error) {
	if strings.TrimSpace(message) == "" {
		return nil, NewMissingMessageError()
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, llm.NewUserMessage(message))

	return messages, nil
}
