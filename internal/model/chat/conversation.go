package chat

import "time"

// Conversation is one persisted turn of a user's dialogue, either side.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Roles stored in conversation rows.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
