package store

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morrisliu/voicechat/backend/internal/model/chat"
	"github.com/morrisliu/voicechat/backend/internal/model/memory"
	"github.com/morrisliu/voicechat/backend/internal/model/user"
)

// Store is the gateway to the relational datastore. By contract it swallows
// datastore faults into nil/false/empty results; callers cannot distinguish
// "no data" from "datastore unreachable". Faults are logged here.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an established connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetUser returns the user row or nil when absent or on fault.
func (s *Store) GetUser(ctx context.Context, id string) *user.User {
	const query = `SELECT id, email, created_at FROM users WHERE id = $1`

	var u user.User
	err := s.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		log.Printf("[store] failed to get user %s: %v", id, err)
		return nil
	}

	return &u
}

// SaveConversation appends one turn. Returns false on fault, never an error.
func (s *Store) SaveConversation(ctx context.Context, userID, role, content string) bool {
	const query = `
		INSERT INTO conversations (id, user_id, role, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query, uuid.NewString(), userID, role, content, time.Now().UTC())
	if err != nil {
		log.Printf("[store] failed to save conversation for user %s: %v", userID, err)
		return false
	}

	return true
}

// ConversationHistory returns up to limit turns, newest first. Empty on fault.
func (s *Store) ConversationHistory(ctx context.Context, userID string, limit int) []chat.Conversation {
	const query = `
		SELECT id, user_id, role, content, timestamp
		FROM conversations
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	// Callers validate limit, but the preallocation must not trust it.
	conversations := make([]chat.Conversation, 0, min(limit, 64))

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		log.Printf("[store] failed to query history for user %s: %v", userID, err)
		return conversations
	}
	defer rows.Close()

	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Role, &c.Content, &c.Timestamp); err != nil {
			log.Printf("[store] failed to scan conversation row: %v", err)
			return make([]chat.Conversation, 0)
		}
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		log.Printf("[store] failed to read history rows for user %s: %v", userID, err)
		return make([]chat.Conversation, 0)
	}

	return conversations
}

// SaveUserMemory appends one memory fact. Returns false on fault.
func (s *Store) SaveUserMemory(ctx context.Context, userID, memoryType, information string, importance float64) bool {
	const query = `
		INSERT INTO user_memory (id, user_id, type, information, importance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	m := memory.Memory{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        memoryType,
		Information: information,
		Importance:  importance,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx, query, m.ID, m.UserID, m.Type, m.Information, m.Importance, m.CreatedAt)
	if err != nil {
		log.Printf("[store] failed to save memory for user %s: %v", userID, err)
		return false
	}

	return true
}
