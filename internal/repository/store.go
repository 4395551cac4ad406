// Package repository persists council conversations.
package repository

import (
	"context"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Conversation operations
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	ListConversations(ctx context.Context) ([]domain.ConversationMetadata, error)
	UpdateConversationTitle(ctx context.Context, id, title string) error
	DeleteConversation(ctx context.Context, id string) error

	// Message operations
	AddMessage(ctx context.Context, msg *domain.ConversationMessage) error

	Close() error
}
