package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// QueryCouncil dispatches a stateless conversation to every admitted model.
func (s *Service) QueryCouncil(ctx context.Context, req domain.CouncilQueryRequest) (*domain.CouncilResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: messages must be non-empty with roles system, user or assistant", err)
	}
	resp := s.dispatcher.Dispatch(ctx, s.models, req.Messages)
	return &resp, nil
}
