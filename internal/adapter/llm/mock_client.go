package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// MockClient is a Backend that answers without network access.
type MockClient struct {
	kind    domain.BackendKind
	timeout time.Duration
}

// NewMockClient creates a mock backend of the given kind.
func NewMockClient(kind domain.BackendKind) *MockClient {
	return &MockClient{kind: kind, timeout: defaultTimeout(kind)}
}

// Name returns the mock backend name.
func (m *MockClient) Name() string { return "mock-" + string(m.kind) }

// Kind returns the backend kind.
func (m *MockClient) Kind() domain.BackendKind { return m.kind }

// Timeout returns the default timeout of the mocked backend kind.
func (m *MockClient) Timeout() time.Duration { return m.timeout }

// Query returns a mock response.
func (m *MockClient) Query(ctx context.Context, model string, messages []domain.Message, timeout time.Duration) domain.Outcome {
	out := domain.Outcome{Model: model, Backend: m.kind}
	if err := ctx.Err(); err != nil {
		out.Err = &QueryError{Kind: FailureTransport, Backend: m.Name(), Model: model, Err: err}
		return out
	}
	if model == "" {
		out.Err = &QueryError{Kind: FailureProtocol, Backend: m.Name(), Model: model, Err: &StatusError{Code: 400, Message: "model is required"}}
		return out
	}
	content := m.generateMockResponse(model, messages)
	out.Result = &domain.QueryResult{Content: &content}
	return out
}

// generateMockResponse generates a mock response based on the request.
func (m *MockClient) generateMockResponse(model string, messages []domain.Message) string {
	var lastUserMessage string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			lastUserMessage = messages[i].Content
			break
		}
	}

	if lastUserMessage == "" {
		return fmt.Sprintf("[MOCK %s] This is a mock response.", model)
	}

	return fmt.Sprintf("[MOCK %s] Received your message: %q. This is a mock response.", model, truncate(lastUserMessage, 100))
}
