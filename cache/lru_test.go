package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestNewLRU(t *testing.T) {
	c := NewLRU[string, int](100)
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}

	if got := NewLRU[string, int](0).Capacity(); got != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, got)
	}
}

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v, want 42, true", val, ok)
	}

	c.Set("key1", 43)
	if val, _ := c.Get("key1"); val != 43 {
		t.Errorf("expected overwritten value 43, got %d", val)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestLRUGetOrCreate(t *testing.T) {
	c := NewLRU[string, int](10)
	createCalled := 0
	create := func() (int, error) {
		createCalled++
		return 100, nil
	}

	for range 3 {
		val, err := c.GetOrCreate("key1", create)
		if err != nil || val != 100 {
			t.Fatalf("GetOrCreate = %d, %v, want 100, nil", val, err)
		}
	}
	if createCalled != 1 {
		t.Errorf("expected create called once, got %d", createCalled)
	}
}

func TestLRUGetOrCreateError(t *testing.T) {
	c := NewLRU[string, int](10)
	boom := errors.New("boom")

	_, err := c.GetOrCreate("key", func() (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed creation must not be cached, got %d entries", c.Len())
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("expected Delete(a) to return true")
	}
	if c.Delete("a") {
		t.Error("expected second Delete(a) to return false")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry after delete, got %d", c.Len())
	}
	c.Set("a", 3)
	if val, ok := c.Get("a"); !ok || val != 3 {
		t.Error("deleted key not reusable")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a so b becomes the oldest.
	c.Get("a")
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to survive", k)
		}
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", c.Stats().Evictions)
	}
}

func TestLRUStats(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Len != 1 || s.Capacity != 10 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestLRUConcurrent(t *testing.T) {
	c := NewLRU[string, int](50)
	var wg sync.WaitGroup

	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := strconv.Itoa((g*200 + i) % 100)
				_, _ = c.GetOrCreate(key, func() (int, error) { return i, nil })
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("cache exceeded capacity: %d", c.Len())
	}
}

func TestRecencyList(t *testing.T) {
	var l recency[string]
	l.init()

	a := l.PushFront("a")
	b := l.PushFront("b")
	l.PushFront("c")
	if l.Len() != 3 {
		t.Errorf("expected 3 elements, got %d", l.Len())
	}

	// Touching a leaves b oldest; removing b twice is harmless.
	l.Touch(a)
	l.Remove(b)
	l.Remove(b)
	if l.Len() != 2 {
		t.Errorf("expected 2 elements after remove, got %d", l.Len())
	}

	for _, want := range []string{"c", "a"} {
		if got, ok := l.PopOldest(); !ok || got != want {
			t.Errorf("PopOldest() = %q, %v, want %q", got, ok, want)
		}
	}
	if l.Len() != 0 {
		t.Errorf("expected empty list, got %d", l.Len())
	}
}

func TestRecencyListEmpty(t *testing.T) {
	var l recency[int]

	if _, ok := l.PopOldest(); ok {
		t.Error("expected PopOldest to return false on empty list")
	}
	l.Remove(nil)
	l.Touch(nil)

	l.PushFront(1)
	if v, ok := l.PopOldest(); !ok || v != 1 {
		t.Errorf("lazy init failed: %v, %v", v, ok)
	}
}
