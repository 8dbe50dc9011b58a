package schemacache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupMiss(t *testing.T) {
	cache := NewTablesCache()

	_, ok := cache.Lookup("123456", TokensTable)
	assert.False(t, ok)
}

func TestStoreAndLookup(t *testing.T) {
	cache := NewTablesCache()
	cache.Store("123456", TokensTable, true)
	cache.Store("123456", ResponseTable, false)

	exists, ok := cache.Lookup("123456", TokensTable)
	assert.True(t, ok)
	assert.True(t, exists)

	exists, ok = cache.Lookup("123456", ResponseTable)
	assert.True(t, ok)
	assert.False(t, exists)

	// Kinds are cached independently.
	_, ok = cache.Lookup("123456", TimingsTable)
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	cache := NewTablesCache()
	cache.Store("123456", TokensTable, true)
	cache.Store("654321", TokensTable, true)

	cache.Invalidate("123456")

	_, ok := cache.Lookup("123456", TokensTable)
	assert.False(t, ok)

	// Other surveys keep their entries.
	exists, ok := cache.Lookup("654321", TokensTable)
	assert.True(t, ok)
	assert.True(t, exists)
}
