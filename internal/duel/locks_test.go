package duel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTryLockIsExclusive(t *testing.T) {
	reg := NewLockRegistry()
	inv := Invitation{InitiatorID: 10, Stake: 5, IssuedAt: 42}

	const workers = 32
	var won atomic.Int32
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < workers; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			if _, ok := reg.TryLock(inv); ok {
				won.Add(1)
			}
		}()
	}
	start.Done()
	done.Wait()

	if got := won.Load(); got != 1 {
		t.Fatalf("expected exactly one winner, got %d", got)
	}
}

func TestReleaseAllowsRelock(t *testing.T) {
	reg := NewLockRegistry()
	inv := Invitation{InitiatorID: 10, Stake: 5, IssuedAt: 42}

	g, ok := reg.TryLock(inv)
	if !ok {
		t.Fatal("first lock failed")
	}
	if _, ok := reg.TryLock(inv); ok {
		t.Fatal("second lock succeeded while held")
	}
	g.Release()
	if reg.Held(inv) {
		t.Fatal("invitation still held after release")
	}

	g2, ok := reg.TryLock(inv)
	if !ok {
		t.Fatal("relock after release failed")
	}
	// a stale guard must not free someone else's lock
	g.Release()
	if !reg.Held(inv) {
		t.Fatal("stale release dropped the new guard")
	}
	g2.Release()
	g2.Release()
	if reg.Held(inv) {
		t.Fatal("invitation held after double release")
	}
}

func TestLocksAreIndependentPerInvitation(t *testing.T) {
	reg := NewLockRegistry()
	a, okA := reg.TryLock(Invitation{InitiatorID: 1, Stake: 5, IssuedAt: 1})
	b, okB := reg.TryLock(Invitation{InitiatorID: 1, Stake: 6, IssuedAt: 1})
	if !okA || !okB {
		t.Fatalf("independent invitations blocked each other: %v %v", okA, okB)
	}
	a.Release()
	b.Release()
}
