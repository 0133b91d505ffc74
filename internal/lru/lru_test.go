package lru

import "testing"

func TestScenarioF(t *testing.T) {
	c, err := New[string, int](2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c=3, got %v %v", v, ok)
	}
	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Fatalf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	c, _ := New[int, int](3)
	for i := 0; i < 100; i++ {
		c.Set(i, i*i)
		if c.Stats().Size > 3 {
			t.Fatalf("size exceeded capacity at i=%d", i)
		}
	}
}

func TestMissIncrementsOnNeverPresentKey(t *testing.T) {
	c, _ := New[string, int](2)
	if _, ok := c.Get("never"); ok {
		t.Fatalf("expected miss")
	}
	if c.Stats().Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", c.Stats().Misses)
	}
}

func TestClearResetsStats(t *testing.T) {
	c, _ := New[string, int](2)
	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")
	c.Clear()
	stats := c.Stats()
	if stats.Size != 0 || stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Fatalf("expected zeroed stats after clear, got %+v", stats)
	}
	if c.Has("a") {
		t.Fatalf("expected a to be gone after clear")
	}
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := New[string, int](0); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
	if _, err := New[string, int](-1); err == nil {
		t.Fatalf("expected error for negative capacity")
	}
}

func TestSetExistingKeyMovesToFrontWithoutGrowing(t *testing.T) {
	c, _ := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // update + move to front
	c.Set("c", 3)  // should evict b, not a

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Fatalf("expected a=10, got %v %v", v, ok)
	}
}
