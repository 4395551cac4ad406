package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/domain"
)

const maxTitleLength = 50

const titlePrompt = `Generate a very short title (3-5 words maximum) that summarizes the following question.
The title should be concise and descriptive. Do not use quotes or punctuation in the title.

Question: %s

Title:`

// GenerateTitle asks the title model for a short conversation title.
// Any failure yields domain.DefaultConversationTitle.
func (s *Service) GenerateTitle(ctx context.Context, question string) string {
	prompt := fmt.Sprintf(titlePrompt, question)
	resp := s.dispatcher.Dispatch(ctx, []string{s.config.TitleModel}, []domain.Message{
		domain.NewMessage(domain.RoleUser, prompt),
	})

	result, ok := resp.Get(s.config.TitleModel)
	if !ok || result == nil {
		s.logger.Warn("title generation failed", zap.String("model", s.config.TitleModel))
		return domain.DefaultConversationTitle
	}
	return cleanTitle(result.Text())
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.DefaultConversationTitle
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength-3]) + "..."
	}
	return title
}
