package webhook

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryGuardAdmitOnce(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()
	id := uuid.NewString()

	ok, err := g.AdmitOnce(ctx, id)
	if err != nil || !ok {
		t.Fatalf("first AdmitOnce = %v, %v, want true, nil", ok, err)
	}
	for i := 0; i < 3; i++ {
		ok, err := g.AdmitOnce(ctx, id)
		if err != nil || ok {
			t.Fatalf("repeat AdmitOnce = %v, %v, want false, nil", ok, err)
		}
	}
}

func TestMemoryGuardDistinctIDs(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if ok, _ := g.AdmitOnce(ctx, uuid.NewString()); !ok {
			t.Fatal("expected fresh id to be admitted")
		}
	}
}

func TestMemoryGuardConcurrentSameID(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()
	id := uuid.NewString()

	const callers = 50
	var wg sync.WaitGroup
	admitted := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := g.AdmitOnce(ctx, id)
			if err != nil {
				t.Error(err)
				return
			}
			admitted <- ok
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one caller admitted, got %d", count)
	}
}
