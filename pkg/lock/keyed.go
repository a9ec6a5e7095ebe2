// Package lock provides per-key mutual exclusion with context-aware
// acquisition. The booking core uses it to serialize every mutation of a
// venue's state (validate, availability check, commit) so that two
// concurrent requests cannot both observe a free slot and both commit.
// Different keys proceed independently.
package lock

import (
	"context"
	"sync"
)

type slot struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex is a set of independent mutexes addressed by string key.
// Slots are created on demand and released once unused, so the map does not
// grow with the number of venues ever seen.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		slots: make(map[string]*slot),
	}
}

// Acquire blocks until the key's mutex is held or the context is done.
// On success it returns a release function that must be called exactly once;
// on context expiry it returns the context error without holding the lock.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	s, ok := k.slots[key]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	k.mu.Unlock()

	select {
	case s.sem <- struct{}{}:
		var once sync.Once
		release := func() {
			once.Do(func() {
				<-s.sem
				k.unref(key, s)
			})
		}
		return release, nil
	case <-ctx.Done():
		k.unref(key, s)
		return nil, ctx.Err()
	}
}

func (k *KeyedMutex) unref(key string, s *slot) {
	k.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
	k.mu.Unlock()
}
