package recipe

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of a chat turn.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// Valid reports whether the role is one of the known roles.
func (r ChatRole) Valid() bool {
	return r == ChatRoleUser || r == ChatRoleModel
}

// ChatMessage is a single turn of a conversation with the chef.
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Timestamp int64    `json:"timestamp"` // unix milliseconds
}

// NewChatMessage creates a message stamped with a fresh id and the current time.
func NewChatMessage(role ChatRole, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}
