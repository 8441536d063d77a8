package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	c.Set("list:1:http://host/boxes", []byte("[]\n"))

	body, found := c.Get("list:1:http://host/boxes")
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(body) != "[]\n" {
		t.Errorf("expected cached body, got %q", body)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Minute)

	c.Set("key", []byte("value"))
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("key"); found {
		t.Error("expected entry to expire")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute, time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	if c.ItemCount() != 2 {
		t.Errorf("expected 2 items, got %d", c.ItemCount())
	}

	c.Clear()
	if c.ItemCount() != 0 {
		t.Errorf("expected 0 items after Clear, got %d", c.ItemCount())
	}

	if stats := c.GetStats(); stats.ItemCount != 0 {
		t.Errorf("expected stats to report 0 items, got %d", stats.ItemCount)
	}
}
