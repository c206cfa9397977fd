package orchestrator

import (
	"testing"

	"github.com/companion-labs/companion/pkg/ai/llm"
	"github.com/companion-labs/companion/pkg/ai/llm/memoryx"
	"github.com/companion-labs/companion/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessagesEmptyHistory(t *testing.T) {
	messages, err := buildMessages(nil, "hello")
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hello"}, messages[0])
}

func TestBuildMessagesPreservesOrder(t *testing.T) {
	history := []memoryx.Turn{
		{Role: memoryx.RoleUser, Content: "first"},
		{Role: memoryx.RoleAssistant, Content: "first reply"},
		{Role: memoryx.RoleUser, Content: "second"},
		{Role: memoryx.RoleAssistant, Content: "second reply"},
	}

	messages, err := buildMessages(history, "third")
	require.NoError(t, err)

	require.Len(t, messages, 5)
	for i, turn := range history {
		assert.Equal(t, turn.Role, messages[i].Role)
		assert.Equal(t, turn.Content, messages[i].Content)
	}
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "third"}, messages[4])
}

func TestBuildMessagesRejectsBlank(t *testing.T) {
	for _, message := range []string{"", " ", "\t\n  "} {
		_, err := buildMessages(nil, message)
		require.Error(t, err)
		assert.True(t, errx.IsCode(err, ErrCodeMissingMessage))
	}
}

func TestBuildMessagesKeepsWhitespaceInContent(t *testing.T) {
	messages, err := buildMessages(nil, "  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", messages[0].Content)
}
