package godi

import (
	"sync"
	"testing"
)

// TestInstanceCache_Slot tests slot creation and reuse
func TestInstanceCache_Slot(t *testing.T) {
	cache := newInstanceCache()

	first, ok := cache.slot(1)
	if !ok || first == nil {
		t.Fatal("slot() returned no slot for a live cache")
	}

	again, _ := cache.slot(1)
	if again != first {
		t.Error("Expected the same slot for the same registration")
	}

	other, _ := cache.slot(2)
	if other == first {
		t.Error("Expected a different slot for another registration")
	}

	if n := cache.len(); n != 0 {
		t.Errorf("Expected no created instances, got %d", n)
	}

	first.created = true
	first.instance = &TService{}
	if n := cache.len(); n != 1 {
		t.Errorf("Expected 1 created instance, got %d", n)
	}
}

// TestInstanceCache_Clear tests that a cleared cache hands out no slots
func TestInstanceCache_Clear(t *testing.T) {
	cache := newInstanceCache()
	sl, _ := cache.slot(1)
	sl.created = true

	cache.clear()

	if n := cache.len(); n != 0 {
		t.Errorf("Expected empty cache after clear, got %d", n)
	}

	if _, ok := cache.slot(1); ok {
		t.Error("Expected slot() to fail after clear")
	}

	// Clearing twice is harmless
	cache.clear()
}

// TestInstanceCache_ThreadSafety tests concurrent slot lookups
func TestInstanceCache_ThreadSafety(t *testing.T) {
	cache := newInstanceCache()

	const goroutines = 50
	slots := make([]*slot, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			slots[i], _ = cache.slot(7)
			_ = cache.len()
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if slots[i] != slots[0] {
			t.Fatal("Concurrent lookups returned different slots")
		}
	}
}
