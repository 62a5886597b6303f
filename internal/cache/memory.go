package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// memoryStore is a mutex-protected in-process map, mirroring the teacher's
// storage/memory.memStorage shape.
type memoryStore struct {
	mu     sync.Mutex
	data   map[Category]map[string]entry
	logger log.Logger
}

// NewMemory returns an in-memory Store suitable for tests and
// single-process deployments.
func NewMemory(logger log.Logger) Store {
	return &memoryStore{
		data:   make(map[Category]map[string]entry),
		logger: logger,
	}
}

func (m *memoryStore) Put(_ context.Context, category Category, id string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.data[category]
	if !ok {
		bucket = make(map[string]entry)
		m.data[category] = bucket
	}
	bucket[id] = entry{value: append([]byte(nil), value...), expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *memoryStore) Get(_ context.Context, category Category, id string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.data[category]
	if !ok {
		return nil, false, nil
	}
	e, ok := bucket[id]
	if !ok {
		return nil, false, nil
	}
	// Tolerate up to 5s of clock skew per spec §4.3.
	if time.Now().After(e.expiresAt.Add(5 * time.Second)) {
		delete(bucket, id)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *memoryStore) Remove(_ context.Context, category Category, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bucket, ok := m.data[category]; ok {
		delete(bucket, id)
	}
	return nil
}

func (m *memoryStore) Close() error { return nil }
