package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScope_SetGetCaseInsensitive(t *testing.T) {
	s := &Scope{vars: make(map[string]string)}
	s.Set("API_KEY", "secret")

	v, ok := s.Get("api_key")
	assert.True(t, ok)
	assert.Equal(t, "secret", v)
}

func TestScope_LaterWriteShadowsEarlier(t *testing.T) {
	s := &Scope{vars: make(map[string]string)}
	s.Set("name", "first")
	s.Set("NAME", "second")

	v, ok := s.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestScope_SnapshotIsFrozen(t *testing.T) {
	s := &Scope{vars: make(map[string]string)}
	s.Set("a", "1")
	snap := s.Snapshot()

	s.Set("a", "2")
	s.Set("b", "3")

	v, ok := snap.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = snap.Get("b")
	assert.False(t, ok)
}
