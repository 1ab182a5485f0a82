package usecase

import "sync"

// codeLocks serializes redemption attempts per code key. Different codes
// proceed fully in parallel; attempts on the same code queue up. Locks are
// never reclaimed, matching the registry where codes are never deleted.
type codeLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newCodeLocks() codeLocks {
	return codeLocks{m: make(map[string]*sync.Mutex)}
}

func (l *codeLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.m[key]
	if !ok {
		cl = &sync.Mutex{}
		l.m[key] = cl
	}
	l.mu.Unlock()

	cl.Lock()
	return cl.Unlock
}
