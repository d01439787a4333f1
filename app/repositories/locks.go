package repositories

import (
	"context"
	"errors"
	"sync"

	"newsportal/app/state"
)

// KeyedLocks hands out one lock per key. Entries are dropped once nobody
// holds or waits for them.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free or ctx is done. The returned func releases
// the lock and must be called exactly once.
func (k *KeyedLocks) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{ch: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			k.release(key, l)
		}, nil
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}
}

func (k *KeyedLocks) release(key string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Len reports how many keys are held or awaited.
func (k *KeyedLocks) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// UpdateSession is the locked read-modify-write shared by the session
// repositories.
func UpdateSession(ctx context.Context, locks *KeyedLocks, repo SessionRepository, id string, fn func(*state.Session)) (*state.Session, error) {
	unlock, err := locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := repo.Get(id)
	if errors.Is(err, ErrNotFound) {
		session = state.NewSession(id)
	} else if err != nil {
		return nil, err
	}

	fn(session)
	if err := repo.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}
