package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlots(t *testing.T) {
	s := NewSlots[string]()

	_, ok := s.Get("parent")
	assert.False(t, ok)
	assert.Zero(t, s.Len())

	s.Set("parent", "page-1")
	v, ok := s.Get("parent")
	assert.True(t, ok)
	assert.Equal(t, "page-1", v)

	s.Set("parent", "page-2")
	v, _ = s.Get("parent")
	assert.Equal(t, "page-2", v)
	assert.Equal(t, 1, s.Len())

	s.Delete("parent")
	_, ok = s.Get("parent")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	s.Delete("parent")
}

func TestSlotsClear(t *testing.T) {
	s := NewSlots[int]()
	s.Set("a", 1)
	s.Set("b", 2)
	assert.Equal(t, 2, s.Len())

	s.Clear()
	assert.Zero(t, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)

	// The cache is usable again after Clear.
	s.Set("c", 3)
	v, ok := s.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSlotsConcurrent(t *testing.T) {
	s := NewSlots[int]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set("shared", n)
				s.Get("shared")
				s.Len()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
