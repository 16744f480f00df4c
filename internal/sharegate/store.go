package sharegate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StorageKey is the persisted name of the next-show timestamp.
const StorageKey = "nextHistogramShareMessage"

// ScopedKey returns the storage key for one client scope.
func ScopedKey(scope string) string {
	if scope == "" {
		return StorageKey
	}
	return StorageKey + ":" + scope
}

// KeyValue is a string key/value backend.
type KeyValue interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
}

// KVStore keeps the timestamp as epoch milliseconds under a single key.
type KVStore struct {
	kv  KeyValue
	key string
}

func NewKVStore(kv KeyValue, key string) *KVStore {
	if key == "" {
		key = StorageKey
	}
	return &KVStore{kv: kv, key: key}
}

func (s *KVStore) Read(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := s.kv.GetValue(ctx, s.key)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ok {
		return time.Time{}, false, nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %s=%q", ErrCorruptValue, s.key, raw)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *KVStore) Write(ctx context.Context, next time.Time) error {
	return s.kv.SetValue(ctx, s.key, strconv.FormatInt(next.UnixMilli(), 10))
}

// MemoryKeyValue is a process-local KeyValue, used when no durable backend
// is configured.
type MemoryKeyValue struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{values: make(map[string]string)}
}

func (m *MemoryKeyValue) GetValue(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKeyValue) SetValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
