package domain

// CouncilQueryRequest is a stateless council dispatch request.
type CouncilQueryRequest struct {
	Messages []Message `json:"messages"`
}

// Validate checks roles and that at least one message is present.
func (r CouncilQueryRequest) Validate() error {
	if len(r.Messages) == 0 {
		return ErrInvalidInput
	}
	for _, m := range r.Messages {
		if !m.Role.Valid() {
			return ErrInvalidInput
		}
	}
	return nil
}

// SendMessageRequest represents a user message posted to a conversation.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse is returned after the council answered a message.
type SendMessageResponse struct {
	ConversationID string               `json:"conversation_id"`
	Title          string               `json:"title"`
	UserMessage    *ConversationMessage `json:"user_message"`
	Reply          *ConversationMessage `json:"reply"`
}

// CouncilInfo describes the configured council.
type CouncilInfo struct {
	Models     []string      `json:"models"`
	Blocked    []string      `json:"blocked,omitempty"`
	Mode       ExecutionMode `json:"mode"`
	TitleModel string        `json:"title_model"`
}
