package session

import (
	"context"
	"sync"
	"time"

	"weddingmarket/internal/domain"
)

// Cache is the capability surface handlers get for session acceleration.
// Entries never outlive the durable record's expiry.
type Cache interface {
	Get(id string) (*domain.Session, bool)
	Put(s *domain.Session)
	Evict(id string)
}

// memoryCache is a bounded token->session accelerator. The durable row stays
// authoritative; a miss here is never an authentication failure by itself.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.Session
	max     int
	now     func() time.Time
}

// NewCache returns a Cache holding at most max sessions.
func NewCache(max int) Cache {
	if max <= 0 {
		max = 1024
	}
	return &memoryCache{
		entries: make(map[string]*domain.Session),
		max:     max,
		now:     time.Now,
	}
}

func (c *memoryCache) Get(id string) (*domain.Session, bool) {
	c.mu.RLock()
	s, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.Expired(c.now()) {
		c.Evict(id)
		return nil, false
	}
	return s, true
}

func (c *memoryCache) Put(s *domain.Session) {
	if s == nil || s.Expired(c.now()) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		// Drop expired entries first; if still full, drop an arbitrary one.
		now := c.now()
		for id, e := range c.entries {
			if e.Expired(now) {
				delete(c.entries, id)
			}
		}
		for id := range c.entries {
			if len(c.entries) < c.max {
				break
			}
			delete(c.entries, id)
		}
	}
	c.entries[s.ID] = s
}

func (c *memoryCache) Evict(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

// Store combines the durable session repository with the in-memory cache.
type Store struct {
	repo  domain.SessionRepository
	cache Cache
	now   func() time.Time
}

func NewStore(repo domain.SessionRepository, cache Cache) *Store {
	return &Store{repo: repo, cache: cache, now: time.Now}
}

// Create persists a new session and primes the cache.
func (s *Store) Create(ctx context.Context, sess *domain.Session) error {
	if err := s.repo.Create(ctx, sess); err != nil {
		return err
	}
	s.cache.Put(sess)
	return nil
}

// Get returns a live session by id, or ErrUnauthenticated when it is absent
// or expired. Expired rows are deleted on sight.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.cache.Get(id); ok {
		return sess, nil
	}
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrUnauthenticated
	}
	if sess.Expired(s.now()) {
		_ = s.repo.Delete(ctx, id)
		return nil, domain.ErrUnauthenticated
	}
	s.cache.Put(sess)
	return sess, nil
}

// Delete removes the session everywhere (logout).
func (s *Store) Delete(ctx context.Context, id string) error {
	s.cache.Evict(id)
	return s.repo.Delete(ctx, id)
}

// PurgeExpired deletes expired session rows and reports how many went. The
// cache drops its own expired entries lazily on access.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
