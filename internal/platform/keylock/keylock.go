package keylock

import (
	"sync"

	"github.com/google/uuid"
)

// KeyLock serializes work per key. All reads and writes for one alarm go
// through the same lock so the evaluator never races the tracker or the
// optimizer; different alarms proceed independently.
type KeyLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[uuid.UUID]*entry)}
}

func (k *KeyLock) Lock(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

func (k *KeyLock) Unlock(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if ok {
		e.refs--
		if e.refs <= 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}

// Do runs fn while holding the lock for key.
func (k *KeyLock) Do(key uuid.UUID, fn func() error) error {
	k.Lock(key)
	defer k.Unlock(key)
	return fn()
}
