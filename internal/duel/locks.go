package duel

import "sync"

// LockRegistry keeps at most one in-flight resolution per invitation. It is
// process-local; several bot instances sharing a database would each have
// their own registry.
type LockRegistry struct {
	held sync.Map
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// Guard is owned by the caller that acquired it and must be released on
// every exit path.
type Guard struct {
	registry *LockRegistry
	key      string
	once     sync.Once
}

func (r *LockRegistry) TryLock(inv Invitation) (*Guard, bool) {
	key := inv.Key()
	g := &Guard{registry: r, key: key}
	if _, loaded := r.held.LoadOrStore(key, g); loaded {
		return nil, false
	}
	return g, true
}

func (r *LockRegistry) Held(inv Invitation) bool {
	_, ok := r.held.Load(inv.Key())
	return ok
}

// Release is idempotent; only the first call frees the key.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.registry.held.CompareAndDelete(g.key, g)
	})
}
