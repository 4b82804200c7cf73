package checkout

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := newKeyedMutex()

	var mu sync.Mutex
	var active, maxActive int

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("checkout_1")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected serialized access, max concurrency %d", maxActive)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locks := newKeyedMutex()

	unlockA := locks.Lock("checkout_a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("checkout_b")
		unlockB()
		close(done)
	}()

	// Блокировка другого ключа не должна ждать checkout_a.
	<-done
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	locks := newKeyedMutex()

	for i := 0; i < 100; i++ {
		unlock := locks.Lock("checkout_1")
		unlock()
	}

	locks.mu.Lock()
	size := len(locks.locks)
	locks.mu.Unlock()

	if size != 0 {
		t.Fatalf("expected empty lock table, got %d entries", size)
	}
}
