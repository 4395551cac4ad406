package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/domain"
)

func (s *Service) CreateConversation(ctx context.Context) (*domain.Conversation, error) {
	conv := &domain.Conversation{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Title:     domain.DefaultConversationTitle,
		Messages:  []domain.ConversationMessage{},
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context) ([]domain.ConversationMetadata, error) {
	list, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return list, nil
}

func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	if err := s.store.DeleteConversation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// SendMessage stores the user turn, dispatches the council with the user
// query, and stores the council response as the assistant turn. The first
// message of a conversation also generates its title.
func (s *Service) SendMessage(ctx context.Context, conversationID, content string) (*domain.SendMessageResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	first := len(conv.Messages) == 0

	userMsg := &domain.ConversationMessage{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.AddMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	council := s.dispatcher.Dispatch(ctx, s.models, []domain.Message{
		domain.NewMessage(domain.RoleUser, content),
	})

	reply := &domain.ConversationMessage{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Council:        &council,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.AddMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to store council reply: %w", err)
	}

	title := conv.Title
	if first {
		title = s.GenerateTitle(ctx, content)
		if err := s.store.UpdateConversationTitle(ctx, conversationID, title); err != nil {
			s.logger.Warn("failed to store conversation title", zap.String("conversation_id", conversationID), zap.Error(err))
		}
	}

	return &domain.SendMessageResponse{
		ConversationID: conversationID,
		Title:          title,
		UserMessage:    userMsg,
		Reply:          reply,
	}, nil
}
