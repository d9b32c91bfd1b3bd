package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportCachePutGet(t *testing.T) {
	c := NewReportCache(4)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", 1)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestReportCacheFIFOEviction(t *testing.T) {
	c := NewReportCache(2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts "a", the oldest

	_, ok := c.Get("a")
	assert.False(t, ok)
	got, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	got, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, got)
	assert.Equal(t, 2, c.Len())
}

func TestReportCacheReplaceKeepsAge(t *testing.T) {
	c := NewReportCache(2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10) // replacement, not reinsertion
	c.Put("c", 3)  // "a" is still oldest and gets evicted

	_, ok := c.Get("a")
	assert.False(t, ok)
	got, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestReportCacheMinimumSize(t *testing.T) {
	c := NewReportCache(0)
	c.Put("a", 1)
	c.Put("b", 2)
	assert.Equal(t, 1, c.Len())
}
