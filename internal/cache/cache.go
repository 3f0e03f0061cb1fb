// Package cache provides the optional key-value cache consulted by the
// recommendation engine and semantic search. The cache is a pure performance
// optimization: every implementation degrades to "always miss" rather than
// surfacing failures.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cache is the external cache boundary. Implementations never return
// errors; an unavailable backend behaves as a permanent miss.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value string, ttl time.Duration)

	// Delete removes key.
	Delete(ctx context.Context, key string)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) bool
}

// Key builds a cache key of the form "prefix:arg1:arg2:...".
func Key(prefix string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, prefix)
	for _, a := range args {
		switch v := a.(type) {
		case string:
			parts = append(parts, v)
		case int:
			parts = append(parts, strconv.Itoa(v))
		case int64:
			parts = append(parts, strconv.FormatInt(v, 10))
		default:
			parts = append(parts, toString(v))
		}
	}
	return strings.Join(parts, ":")
}

func toString(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return ""
}

// Memory is an in-process Cache with per-entry expiry. Used in tests and as
// the default when no Redis address is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get returns the live value for key.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores value for ttl. A non-positive ttl means no expiry.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	m.entries[key] = e
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Exists reports whether key holds a live value.
func (m *Memory) Exists(ctx context.Context, key string) bool {
	_, ok := m.Get(ctx, key)
	return ok
}
