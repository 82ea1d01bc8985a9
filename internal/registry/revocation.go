package registry

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks tokens invalidated by logout before their natural
// expiry. Implementations must support concurrent reads with serialized
// writes and no lost updates. Entries are never removed; the set is bounded
// by process (or key) lifetime.
type RevocationStore interface {
	// Revoke inserts a token into the store. Idempotent.
	Revoke(ctx context.Context, token string) error
	// IsRevoked reports whether a token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRevocationStore is the process-local implementation: a RWMutex-guarded
// set of opaque token strings.
type MemoryRevocationStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewMemoryRevocationStore creates an empty in-memory revocation store
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokens: make(map[string]struct{}),
	}
}

// Revoke inserts the token into the set
func (s *MemoryRevocationStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return nil
}

// IsRevoked checks set membership
func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok, nil
}

// RedisRevocationStore keeps the revocation set in Redis so multiple
// instances share one blacklist.
type RedisRevocationStore struct {
	client *redis.Client
	key    string
}

// NewRedisRevocationStore creates a revocation store backed by the given
// Redis client. All entries live under a single set key.
func NewRedisRevocationStore(client *redis.Client, key string) *RedisRevocationStore {
	if key == "" {
		key = "auth:revoked_tokens"
	}
	return &RedisRevocationStore{client: client, key: key}
}

// Revoke adds the token to the Redis set
func (s *RedisRevocationStore) Revoke(ctx context.Context, token string) error {
	return s.client.SAdd(ctx, s.key, token).Err()
}

// IsRevoked checks Redis set membership
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.client.SIsMember(ctx, s.key, token).Result()
}

// Compile-time checks to ensure implementations satisfy the interface
var (
	_ RevocationStore = (*MemoryRevocationStore)(nil)
	_ RevocationStore = (*RedisRevocationStore)(nil)
)
