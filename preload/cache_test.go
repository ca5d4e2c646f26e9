package preload

import "testing"

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newCache(2, 0)
	c.put("a", []byte("1"))
	c.put("b", []byte("2"))
	c.get("a")
	c.put("c", []byte("3"))

	if !c.contains("a") || c.contains("b") || !c.contains("c") {
		t.Errorf("expected b evicted, have a=%v b=%v c=%v", c.contains("a"), c.contains("b"), c.contains("c"))
	}
}

func TestCacheByteBudget(t *testing.T) {
	c := newCache(10, 10)
	c.put("a", make([]byte, 4))
	c.put("b", make([]byte, 4))
	c.put("c", make([]byte, 4))

	if c.contains("a") {
		t.Error("a should be evicted to fit the byte budget")
	}
	if got := c.bytes(); got != 8 {
		t.Errorf("bytes = %d, want 8", got)
	}

	c.put("huge", make([]byte, 11))
	if c.contains("huge") {
		t.Error("entries over the budget must not be stored")
	}

	c.put("b", make([]byte, 1))
	if got := c.bytes(); got != 5 {
		t.Errorf("bytes after replace = %d, want 5", got)
	}

	c.clear()
	if c.len() != 0 || c.bytes() != 0 {
		t.Error("clear should empty the cache")
	}
}
