// Package proposalcache stores recently generated schedule responses so a
// caller can re-fetch an option set shortly after it was generated,
// generalizing the teacher's in-process proposalStore (sync.RWMutex + TTL
// map) to an interface with an in-memory default and an optional
// Redis-backed implementation.
package proposalcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/k11-scheduler/internal/dto"
)

// Store caches a generation response under its proposal ID for a bounded
// TTL.
type Store interface {
	Save(ctx context.Context, id string, resp dto.GenerateResponse) error
	Get(ctx context.Context, id string) (dto.GenerateResponse, bool, error)
	Delete(ctx context.Context, id string) error
}

// --- in-memory implementation ---

type entry struct {
	resp      dto.GenerateResponse
	expiresAt time.Time
}

// Memory is the default, dependency-free Store.
type Memory struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory builds an in-memory store with the given entry lifetime.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Memory{ttl: ttl, items: make(map[string]entry)}
}

func (m *Memory) Save(_ context.Context, id string, resp dto.GenerateResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = entry{resp: resp, expiresAt: time.Now().Add(m.ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (dto.GenerateResponse, bool, error) {
	m.mu.RLock()
	e, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return dto.GenerateResponse{}, false, nil
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.items, id)
		m.mu.Unlock()
		return dto.GenerateResponse{}, false, nil
	}
	return e.resp, true, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

// --- Redis-backed implementation ---

// Redis is a Store backed by a redis.Client, selected by config when the
// deployment wants the cache to survive a process restart or be shared
// across replicas of the HTTP wrapper.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis wraps an already-dialed client (see pkg/cache.NewRedis).
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Redis{client: client, ttl: ttl, prefix: "k11:proposal:"}
}

func (r *Redis) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

func (r *Redis) Save(ctx context.Context, id string, resp dto.GenerateResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(id), payload, r.ttl).Err()
}

func (r *Redis) Get(ctx context.Context, id string) (dto.GenerateResponse, bool, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return dto.GenerateResponse{}, false, nil
	}
	if err != nil {
		return dto.GenerateResponse{}, false, err
	}
	var resp dto.GenerateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return dto.GenerateResponse{}, false, err
	}
	return resp, true, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
