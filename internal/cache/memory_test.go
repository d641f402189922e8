package cache

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory(10)
	ctx := t.Context()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want ErrMiss for absent key, got %v", err)
	}

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("want %q, got %q", "v", got)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10)
	ctx := t.Context()

	if err := m.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want ErrMiss after expiry, got %v", err)
	}
}

func TestMemoryCapacityEviction(t *testing.T) {
	m := NewMemory(3)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		if err := m.Set(ctx, "k"+strconv.Itoa(i), []byte("v"), time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
		time.Sleep(time.Millisecond) // distinct storedAt
	}
	// fourth insert evicts the oldest (k0)
	if err := m.Set(ctx, "k3", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := m.Get(ctx, "k0"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want oldest entry evicted, got %v", err)
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, err := m.Get(ctx, k); err != nil {
			t.Fatalf("want %s retained, got %v", k, err)
		}
	}
	if n := m.Len(); n != 3 {
		t.Fatalf("want 3 live entries, got %d", n)
	}
}

func TestMemoryCounters(t *testing.T) {
	m := NewMemory(10)
	ctx := t.Context()

	n, err := m.Incr(ctx, VersionKey)
	if err != nil || n != 1 {
		t.Fatalf("want first incr = 1, got %d err=%v", n, err)
	}
	n, err = m.Incr(ctx, VersionKey)
	if err != nil || n != 2 {
		t.Fatalf("want second incr = 2, got %d err=%v", n, err)
	}

	// counters are readable through Get as decimal text
	b, err := m.Get(ctx, VersionKey)
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	if string(b) != "2" {
		t.Fatalf("want counter %q, got %q", "2", b)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory(10)
	ctx := t.Context()

	_ = m.Set(ctx, "a", []byte("1"), time.Minute)
	_ = m.Set(ctx, "b", []byte("2"), time.Minute)
	if err := m.Delete(ctx, "a", "b", "never-existed"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want a gone, got %v", err)
	}
	if _, err := m.Get(ctx, "b"); !errors.Is(err, ErrMiss) {
		t.Fatalf("want b gone, got %v", err)
	}
}
