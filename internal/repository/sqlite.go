package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			council_mode TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS council_results (
			message_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			model TEXT NOT NULL,
			backend TEXT NOT NULL,
			ok INTEGER NOT NULL,
			content TEXT,
			reasoning_details TEXT,
			error TEXT,
			PRIMARY KEY (message_id, idx),
			FOREIGN KEY (message_id) REFERENCES messages(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateConversation creates a new conversation.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at) VALUES (?, ?, ?)`,
		conv.ID, conv.Title, conv.CreatedAt.UTC())
	return err
}

// GetConversation retrieves a conversation with all of its messages.
func (s *SQLiteStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM conversations WHERE id = ?`, id).
		Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	messages, err := s.getMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	conv.Messages = messages
	return &conv, nil
}

func (s *SQLiteStore) getMessages(ctx context.Context, conversationID string) ([]domain.ConversationMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, council_mode, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, rowid ASC`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ConversationMessage{}
	for rows.Next() {
		var msg domain.ConversationMessage
		var mode sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &mode, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if mode.Valid {
			msg.Council = &domain.CouncilResponse{Mode: domain.ExecutionMode(mode.String), Entries: []domain.CouncilEntry{}}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range messages {
		if messages[i].Council == nil {
			continue
		}
		entries, err := s.getCouncilEntries(ctx, messages[i].ID)
		if err != nil {
			return nil, err
		}
		messages[i].Council.Entries = entries
	}
	return messages, nil
}

func (s *SQLiteStore) getCouncilEntries(ctx context.Context, messageID string) ([]domain.CouncilEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, model, backend, ok, content, reasoning_details, error
		 FROM council_results WHERE message_id = ? ORDER BY idx ASC`,
		messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.CouncilEntry{}
	for rows.Next() {
		var entry domain.CouncilEntry
		var ok bool
		var content, reasoning, errText sql.NullString
		if err := rows.Scan(&entry.Index, &entry.Model, &entry.Backend, &ok, &content, &reasoning, &errText); err != nil {
			return nil, err
		}
		if ok {
			entry.Result = &domain.QueryResult{}
			if content.Valid {
				text := content.String
				entry.Result.Content = &text
			}
			if reasoning.Valid {
				entry.Result.ReasoningDetails = json.RawMessage(reasoning.String)
			}
		}
		entry.Error = errText.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListConversations returns conversation metadata, newest first.
func (s *SQLiteStore) ListConversations(ctx context.Context) ([]domain.ConversationMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.created_at, COUNT(m.id)
		 FROM conversations c LEFT JOIN messages m ON m.conversation_id = c.id
		 GROUP BY c.id, c.title, c.created_at
		 ORDER BY c.created_at DESC, c.rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.ConversationMetadata{}
	for rows.Next() {
		var meta domain.ConversationMetadata
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.CreatedAt, &meta.MessageCount); err != nil {
			return nil, err
		}
		list = append(list, meta)
	}
	return list, rows.Err()
}

// UpdateConversationTitle sets the title of a conversation.
func (s *SQLiteStore) UpdateConversationTitle(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE conversations SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteConversation removes a conversation and its messages.
// Rows are deleted explicitly since foreign_keys is a per-connection pragma.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM council_results WHERE message_id IN (SELECT id FROM messages WHERE conversation_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// AddMessage appends a message, and its council entries if any, to a
// conversation.
func (s *SQLiteStore) AddMessage(ctx context.Context, msg *domain.ConversationMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM conversations WHERE id = ?`, msg.ConversationID).Scan(&exists)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	var mode sql.NullString
	if msg.Council != nil {
		mode = sql.NullString{String: string(msg.Council.Mode), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, council_mode, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, string(msg.Role), msg.Content, mode, msg.CreatedAt.UTC()); err != nil {
		return err
	}

	if msg.Council != nil {
		for _, entry := range msg.Council.Entries {
			var content, reasoning, errText sql.NullString
			if entry.Result != nil {
				if entry.Result.Content != nil {
					content = sql.NullString{String: *entry.Result.Content, Valid: true}
				}
				if len(entry.Result.ReasoningDetails) > 0 {
					reasoning = sql.NullString{String: string(entry.Result.ReasoningDetails), Valid: true}
				}
			}
			if entry.Error != "" {
				errText = sql.NullString{String: entry.Error, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO council_results (message_id, idx, model, backend, ok, content, reasoning_details, error)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				msg.ID, entry.Index, entry.Model, string(entry.Backend), entry.Result != nil, content, reasoning, errText); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
