package llm

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one conversation turn supplied by the caller. History is bounded
// and transient; the service never persists it.
type Turn struct {
	Role    string
	Content string
}

// NormalizeTurns cleans caller-supplied history and caps it to the most
// recent limit turns. Unknown roles collapse to assistant, empty content is
// dropped.
func NormalizeTurns(raw []Turn, limit int) []Turn {
	cleaned := make([]Turn, 0, len(raw))
	for _, item := range raw {
		content := strings.TrimSpace(item.Content)
		if content == "" {
			continue
		}
		role := RoleAssistant
		if item.Role == RoleUser {
			role = RoleUser
		}
		cleaned = append(cleaned, Turn{Role: role, Content: content})
	}
	if limit > 0 && len(cleaned) > limit {
		cleaned = cleaned[len(cleaned)-limit:]
	}
	return cleaned
}

// HistoryMessages converts turns to model messages.
func HistoryMessages(turns []Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}
	messages := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		if t.Role == RoleUser {
			messages = append(messages, schema.UserMessage(t.Content))
		} else {
			messages = append(messages, schema.AssistantMessage(t.Content, nil))
		}
	}
	return messages
}

// LastUserTurn returns the most recent user turn, or empty.
func LastUserTurn(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}
