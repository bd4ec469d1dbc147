package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGet(t *testing.T) {
	c := New[string](3)
	c.Put("a", "1")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestOverflowEvictsOldestInsertion(t *testing.T) {
	c := New[int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// reads must not promote entries
	_, _ = c.Get("a")
	_, _ = c.Get("a")

	c.Put("d", 4)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest insertion should be evicted despite reads")
	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, 3, c.Len())
}

func TestSizeNeverExceedsCap(t *testing.T) {
	c := New[int](IndexCacheSize)
	for i := 0; i < IndexCacheSize*3; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, IndexCacheSize, c.Len())
}
