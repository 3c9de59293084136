package sessions

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/profilku/profilku/internal/models"
)

// FlashTTL bounds how long an undelivered notification waits for the next page.
const FlashTTL = 5 * time.Minute

// FlashStore carries notifications across a redirect, keyed by browser session id.
type FlashStore interface {
	Push(ctx context.Context, id string, toasts ...models.Toast) error
	Pop(ctx context.Context, id string) ([]models.Toast, error)
}

// RedisFlashStore keeps pending toasts in a Redis list per browser session.
type RedisFlashStore struct {
	client *redis.Client
}

func NewRedisFlashStore(c *redis.Client) *RedisFlashStore { return &RedisFlashStore{client: c} }

func flashKey(id string) string { return "flash:" + id }

func (f *RedisFlashStore) Push(ctx context.Context, id string, toasts ...models.Toast) error {
	if len(toasts) == 0 {
		return nil
	}
	vals := make([]interface{}, 0, len(toasts))
	for _, t := range toasts {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		vals = append(vals, b)
	}
	pipe := f.client.TxPipeline()
	pipe.RPush(ctx, flashKey(id), vals...)
	pipe.Expire(ctx, flashKey(id), FlashTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (f *RedisFlashStore) Pop(ctx context.Context, id string) ([]models.Toast, error) {
	pipe := f.client.TxPipeline()
	rng := pipe.LRange(ctx, flashKey(id), 0, -1)
	pipe.Del(ctx, flashKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	out := make([]models.Toast, 0, len(rng.Val()))
	for _, raw := range rng.Val() {
		var t models.Toast
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// MemoryFlashStore is the in-process FlashStore.
type MemoryFlashStore struct {
	mu      sync.Mutex
	pending map[string][]models.Toast
}

func NewMemoryFlashStore() *MemoryFlashStore {
	return &MemoryFlashStore{pending: map[string][]models.Toast{}}
}

func (m *MemoryFlashStore) Push(ctx context.Context, id string, toasts ...models.Toast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[id] = append(m.pending[id], toasts...)
	return nil
}

func (m *MemoryFlashStore) Pop(ctx context.Context, id string) ([]models.Toast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending[id]
	delete(m.pending, id)
	return out, nil
}
