package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemorySetGetDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "car:1", `{"id":1}`, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := m.Get(ctx, "car:1")
	if err != nil || !ok || value != `{"id":1}` {
		t.Fatalf("Get = (%q, %v, %v), want hit", value, ok, err)
	}

	if err := m.Del(ctx, "car:1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "car:1"); ok {
		t.Error("Get after Del reported a hit")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	current := time.Now()
	m.now = func() time.Time { return current }

	if err := m.Set(ctx, "car:2", "cached", 300*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	current = current.Add(299 * time.Second)
	if _, ok, _ := m.Get(ctx, "car:2"); !ok {
		t.Error("entry expired before its TTL")
	}
	current = current.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "car:2"); ok {
		t.Error("entry survived past its TTL")
	}
}
