package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Parallel()
	s, err := New(Options{Path: t.TempDir(), TTL: time.Second})
	require.NoError(t, err)
	defer s.Close()

	key, value := Key("/a", "https://example.org/"), `{"href":"https://example.org/a"}`
	_, ok := s.Get(key)
	assert.False(t, ok, "retrieved value before adding it")

	s.Set(key, []byte(value))
	v, ok := s.Get(key)
	assert.True(t, ok)
	assert.Equal(t, value, string(v))

	s.Del(key)
	_, ok = s.Get(key)
	assert.False(t, ok, "delete failed")

	s.Set(key, []byte(value))
	time.Sleep(2 * time.Second)
	_, ok = s.Get(key)
	assert.False(t, ok, "not expired")
}

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Len(t, Key("a", "b"), 32)
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("ab", ""), Key("a", "b"))
}
