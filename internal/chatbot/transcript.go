package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	transcriptPrefix   = "atomnext:chat:"
	transcriptMaxItems = 200
)

// Message is one line of a chat transcript.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Topic     Topic     `json:"topic,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptStore keeps chat history per session.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msg Message) error
	List(ctx context.Context, sessionID string, limit int64) ([]Message, error)
}

// RedisTranscript stores transcripts as capped Redis lists.
type RedisTranscript struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTranscript returns a Redis-backed transcript store. Lists expire
// ttl after their last append; a zero ttl keeps them forever.
func NewRedisTranscript(client *redis.Client, ttl time.Duration) *RedisTranscript {
	if client == nil {
		panic("chatbot: redis client cannot be nil")
	}
	return &RedisTranscript{client: client, ttl: ttl}
}

func transcriptKey(sessionID string) string {
	return transcriptPrefix + sessionID
}

func (t *RedisTranscript) Append(ctx context.Context, sessionID string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("chatbot: marshal transcript message: %w", err)
	}
	key := transcriptKey(sessionID)
	_, err = t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.LTrim(ctx, key, -transcriptMaxItems, -1)
		if t.ttl > 0 {
			pipe.Expire(ctx, key, t.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("chatbot: append transcript %s: %w", sessionID, err)
	}
	return nil
}

// List returns the most recent limit messages, oldest first.
func (t *RedisTranscript) List(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	if limit <= 0 {
		limit = transcriptMaxItems
	}
	raw, err := t.client.LRange(ctx, transcriptKey(sessionID), -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("chatbot: list transcript %s: %w", sessionID, err)
	}
	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// MemoryTranscript is an in-process TranscriptStore for local runs and tests.
type MemoryTranscript struct {
	mu       sync.Mutex
	sessions map[string][]Message
}

func NewMemoryTranscript() *MemoryTranscript {
	return &MemoryTranscript{sessions: make(map[string][]Message)}
}

func (t *MemoryTranscript) Append(_ context.Context, sessionID string, msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := append(t.sessions[sessionID], msg)
	if len(msgs) > transcriptMaxItems {
		msgs = msgs[len(msgs)-transcriptMaxItems:]
	}
	t.sessions[sessionID] = msgs
	return nil
}

func (t *MemoryTranscript) List(_ context.Context, sessionID string, limit int64) ([]Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := t.sessions[sessionID]
	if limit > 0 && int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	return append([]Message(nil), msgs...), nil
}
