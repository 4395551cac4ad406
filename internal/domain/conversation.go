package domain

import "time"

// Conversation is a stored chat with the council.
type Conversation struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Title     string                `json:"title"`
	Messages  []ConversationMessage `json:"messages"`
}

// ConversationMetadata is the list view of a conversation.
type ConversationMetadata struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
}

// ConversationMessage is a stored turn. User turns carry Content; assistant
// turns carry the council response.
type ConversationMessage struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversation_id"`
	Role           Role             `json:"role"`
	Content        string           `json:"content,omitempty"`
	Council        *CouncilResponse `json:"council,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// DefaultConversationTitle is used until a title has been generated.
const DefaultConversationTitle = "New Conversation"
