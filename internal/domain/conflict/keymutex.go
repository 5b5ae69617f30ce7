package conflict

import "sync"

// KeyMutex serializes operations that share a conflict key (a day key for
// session assignment, a board id for board assignment). The check-then-act
// sequences in the assignment services are not atomic against the store, so
// concurrent callers must hold the key's lock across check and write to keep
// the at-most-one invariants.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyMutex creates an empty KeyMutex.
func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Locks are
// never evicted; the key space (dates, boards) is small and bounded.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

// Unlock releases the mutex for key. Unlocking a key that was never locked
// panics, same as sync.Mutex.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	k.mu.Unlock()
	if !ok {
		panic("conflict: unlock of unknown key " + key)
	}
	m.Unlock()
}
