package sharecode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rygonet-server/internal/shared/redis"
)

// SlugStore maps short share slugs to full tokens. Slugs expire; the
// token itself remains self-contained, so a lapsed slug only breaks the
// short link, never the underlying roster encoding.
type SlugStore interface {
	Put(ctx context.Context, slug, token string, ttl time.Duration) error
	Get(ctx context.Context, slug string) (string, bool, error)
}

// NewSlugStore prefers redis and falls back to an in-process map when the
// client is nil (redis disabled or unreachable at startup).
func NewSlugStore(client *redis.Client) SlugStore {
	logger := slog.With("component", "share_slug_store", "operation", "init")

	if client == nil {
		logger.Info("Redis unavailable, using in-memory slug store")
		return newMemorySlugStore()
	}

	logger.Debug("Using redis slug store")
	return &redisSlugStore{client: client}
}

type redisSlugStore struct {
	client *redis.Client
}

func slugKey(slug string) string {
	return "share:slug:" + slug
}

func (s *redisSlugStore) Put(ctx context.Context, slug, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, slugKey(slug), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store share slug: %w", err)
	}
	return nil
}

func (s *redisSlugStore) Get(ctx context.Context, slug string) (string, bool, error) {
	token, err := s.client.Get(ctx, slugKey(slug)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up share slug: %w", err)
	}
	return token, true, nil
}

// memorySlugStore is the single-process fallback: an expiring map with a
// background sweep, the same shape as the OAuth state manager.
type memorySlugStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

func newMemorySlugStore() *memorySlugStore {
	store := &memorySlugStore{entries: make(map[string]memoryEntry)}
	go store.startSweep()
	return store
}

func (s *memorySlugStore) Put(_ context.Context, slug, token string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[slug] = memoryEntry{token: token, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *memorySlugStore) Get(_ context.Context, slug string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[slug]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.token, true, nil
}

func (s *memorySlugStore) startSweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.sweepExpired()
	}
}

func (s *memorySlugStore) sweepExpired() {
	logger := slog.With("component", "share_slug_store", "operation", "sweep")

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expired := 0
	for slug, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, slug)
			expired++
		}
	}

	if expired > 0 {
		logger.Debug("Swept expired share slugs", "expired_count", expired, "remaining_count", len(s.entries))
	}
}
