package chat

import "strings"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles understood by the completion API.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is one turn of the caller-supplied conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role turn.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// HasContent reports whether the turn carries non-blank text.
func (m Message) HasContent() bool {
	return strings.TrimSpace(m.Content) != ""
}
