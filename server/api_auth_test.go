package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "alice", usernameBase("alice@example.com"))
	assert.Equal(t, "a.b-c", usernameBase("a.b-c@example.com"))
	assert.Equal(t, "user", usernameBase(""))
	assert.Equal(t, "user", usernameBase("@example.com"))
}

func TestDeriveUsername(t *testing.T) {
	t.Run("free base is taken as-is", func(t *testing.T) {
		name, err := deriveUsername("alice", func(string) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Equal(t, "alice", name)
	})

	t.Run("counter increments until unique", func(t *testing.T) {
		taken := map[string]bool{"alice": true, "alice1": true, "alice2": true}
		name, err := deriveUsername("alice", func(n string) (bool, error) { return taken[n], nil })
		require.NoError(t, err)
		assert.Equal(t, "alice3", name)
	})

	t.Run("same local part from different domains collides", func(t *testing.T) {
		taken := map[string]bool{}
		claim := func(n string) (bool, error) { return taken[n], nil }

		first, err := deriveUsername(usernameBase("a@x.com"), claim)
		require.NoError(t, err)
		taken[first] = true

		second, err := deriveUsername(usernameBase("a@y.com"), claim)
		require.NoError(t, err)

		assert.Equal(t, "a", first)
		assert.Equal(t, "a1", second)
		assert.NotEqual(t, first, second)
	})

	t.Run("lookup errors propagate", func(t *testing.T) {
		_, err := deriveUsername("alice", func(string) (bool, error) { return false, assert.AnError })
		assert.Error(t, err)
	})
}

func TestSplitFullname(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Ada", "Ada", ""},
		{"Ada Augusta King", "Ada", "Augusta King"},
		{"  Ada Lovelace  ", "Ada", "Lovelace"},
		{"", "", ""},
	}
	for _, c := range cases {
		first, last := splitFullname(c.in)
		assert.Equal(t, c.first, first, "input %q", c.in)
		assert.Equal(t, c.last, last, "input %q", c.in)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", displayName("Ada", "Lovelace", "ada"))
	assert.Equal(t, "Ada", displayName("Ada", "", "ada"))
	assert.Equal(t, "Lovelace", displayName("", "Lovelace", "ada"))
	assert.Equal(t, "ada", displayName("", "", "ada"))
	assert.Equal(t, "ada", displayName("  ", "  ", "ada"))
}
