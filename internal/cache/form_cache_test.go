package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	failSet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if m.failSet {
		return errors.New("connection refused")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) error {
	data, ok := m.entries[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFormCache_RoundTrip(t *testing.T) {
	store := newMemoryCache()
	c := NewFormCache(store, time.Minute, discard)
	ctx := context.Background()

	_, ok := c.GetPublic(ctx, 7)
	assert.False(t, ok)

	c.SetPublic(ctx, &models.PublicForm{ID: 7, Title: "Survey"})
	assert.Equal(t, time.Minute, store.ttls["form:public:7"])

	got, ok := c.GetPublic(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, "Survey", got.Title)

	c.Invalidate(ctx, 7)
	_, ok = c.GetPublic(ctx, 7)
	assert.False(t, ok)
}

func TestFormCache_Flush(t *testing.T) {
	store := newMemoryCache()
	c := NewFormCache(store, time.Minute, discard)
	ctx := context.Background()

	c.SetPublic(ctx, &models.PublicForm{ID: 1})
	c.SetPublic(ctx, &models.PublicForm{ID: 2})
	store.entries["other"] = []byte(`1`)

	require.NoError(t, c.Flush(ctx))
	assert.Len(t, store.entries, 1)
}

func TestFormCache_Disabled(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*FormCache{
		"nil":      nil,
		"no store": NewFormCache(nil, time.Minute, discard),
		"zero ttl": NewFormCache(newMemoryCache(), 0, discard),
	} {
		t.Run(name, func(t *testing.T) {
			c.SetPublic(ctx, &models.PublicForm{ID: 1})
			_, ok := c.GetPublic(ctx, 1)
			assert.False(t, ok)
			c.Invalidate(ctx, 1)
			assert.NoError(t, c.Flush(ctx))
		})
	}
}

func TestFormCache_WriteFailureIsSwallowed(t *testing.T) {
	store := newMemoryCache()
	store.failSet = true
	c := NewFormCache(store, time.Minute, discard)

	assert.NotPanics(t, func() {
		c.SetPublic(context.Background(), &models.PublicForm{ID: 3})
	})
	assert.Empty(t, store.entries)
}
