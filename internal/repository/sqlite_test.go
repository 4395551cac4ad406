package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/council/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }

func TestSQLiteStoreConversationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	conv := &domain.Conversation{ID: "c1", Title: domain.DefaultConversationTitle}
	require.NoError(t, store.CreateConversation(ctx, conv))
	assert.False(t, conv.CreatedAt.IsZero())

	got, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConversationTitle, got.Title)
	assert.Empty(t, got.Messages)

	require.NoError(t, store.UpdateConversationTitle(ctx, "c1", "Rust vs Go"))
	got, err = store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Rust vs Go", got.Title)

	require.NoError(t, store.DeleteConversation(ctx, "c1"))
	_, err = store.GetConversation(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStoreMissingConversation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetConversation(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.UpdateConversationTitle(ctx, "nope", "x"), domain.ErrNotFound)
	assert.ErrorIs(t, store.DeleteConversation(ctx, "nope"), domain.ErrNotFound)

	err = store.AddMessage(ctx, &domain.ConversationMessage{ID: "m1", ConversationID: "nope", Role: domain.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStoreMessagesWithCouncil(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateConversation(ctx, &domain.Conversation{ID: "c1", Title: "t"}))

	now := time.Now().UTC()
	user := &domain.ConversationMessage{ID: "m1", ConversationID: "c1", Role: domain.RoleUser, Content: "question", CreatedAt: now}
	require.NoError(t, store.AddMessage(ctx, user))

	reply := &domain.ConversationMessage{
		ID:             "m2",
		ConversationID: "c1",
		Role:           domain.RoleAssistant,
		CreatedAt:      now.Add(time.Millisecond),
		Council: &domain.CouncilResponse{
			Mode: domain.ExecutionParallel,
			Entries: []domain.CouncilEntry{
				{Index: 0, Model: "openai/gpt-4o", Backend: domain.BackendHosted, Result: &domain.QueryResult{
					Content:          strPtr("answer"),
					ReasoningDetails: json.RawMessage(`[{"type":"reasoning.text"}]`),
				}},
				{Index: 1, Model: "local/qwen", Backend: domain.BackendLocal, Error: "transport: connection refused"},
				{Index: 2, Model: "local/empty", Backend: domain.BackendLocal, Result: &domain.QueryResult{}},
			},
		},
	}
	require.NoError(t, store.AddMessage(ctx, reply))

	conv, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)

	assert.Equal(t, "question", conv.Messages[0].Content)
	assert.Nil(t, conv.Messages[0].Council)

	council := conv.Messages[1].Council
	require.NotNil(t, council)
	assert.Equal(t, domain.ExecutionParallel, council.Mode)
	require.Len(t, council.Entries, 3)

	assert.Equal(t, "answer", council.Entries[0].Result.Text())
	assert.JSONEq(t, `[{"type":"reasoning.text"}]`, string(council.Entries[0].Result.ReasoningDetails))
	assert.Equal(t, domain.BackendHosted, council.Entries[0].Backend)

	assert.Nil(t, council.Entries[1].Result)
	assert.Equal(t, "transport: connection refused", council.Entries[1].Error)

	require.NotNil(t, council.Entries[2].Result)
	assert.Nil(t, council.Entries[2].Result.Content)
	assert.Nil(t, council.Entries[2].Result.ReasoningDetails)
}

func TestSQLiteStoreListConversations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Now().UTC()
	require.NoError(t, store.CreateConversation(ctx, &domain.Conversation{ID: "old", Title: "old", CreatedAt: base}))
	require.NoError(t, store.CreateConversation(ctx, &domain.Conversation{ID: "new", Title: "new", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, store.AddMessage(ctx, &domain.ConversationMessage{ID: "m1", ConversationID: "old", Role: domain.RoleUser, Content: "a"}))
	require.NoError(t, store.AddMessage(ctx, &domain.ConversationMessage{ID: "m2", ConversationID: "old", Role: domain.RoleUser, Content: "b"}))

	list, err := store.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, 0, list[0].MessageCount)
	assert.Equal(t, "old", list[1].ID)
	assert.Equal(t, 2, list[1].MessageCount)
}

func TestSQLiteStoreDeleteRemovesMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateConversation(ctx, &domain.Conversation{ID: "c1", Title: "t"}))
	require.NoError(t, store.AddMessage(ctx, &domain.ConversationMessage{
		ID: "m1", ConversationID: "c1", Role: domain.RoleAssistant,
		Council: &domain.CouncilResponse{Mode: domain.ExecutionSequential, Entries: []domain.CouncilEntry{{Index: 0, Model: "m", Backend: domain.BackendHosted, Error: "x"}}},
	}))

	require.NoError(t, store.DeleteConversation(ctx, "c1"))

	var n int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM council_results`).Scan(&n))
	assert.Equal(t, 0, n)
}
