package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cardbot/internal/domain"
)

const defaultRedisPrefix = "cardbot"

// RedisStore keeps selected accounts in a Redis hash per session so that
// several service replicas share conversational state.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		trimmed = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: trimmed, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, id)
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	s := New(id)
	fields, err := r.client.HGetAll(ctx, r.key(s.ID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", s.ID, err)
	}
	for kind, accountID := range fields {
		s.Select(domain.AccountKind(kind), accountID)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	snapshot := s.Snapshot()
	if len(snapshot) == 0 {
		return nil
	}

	values := make(map[string]interface{}, len(snapshot))
	for kind, accountID := range snapshot {
		values[kind.String()] = accountID
	}

	key := r.key(s.ID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}
