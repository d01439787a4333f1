package repositories

import (
	"context"
	"errors"
	"time"

	"newsportal/app/state"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Entries expire ttl after their last save.
type BadgerSessionRepository struct {
	db    *badger.DB
	ttl   time.Duration
	locks *KeyedLocks
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository. A ttl of
// zero keeps sessions forever.
func NewBadgerSessionRepository(db *badger.DB, ttl time.Duration) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, ttl: ttl, locks: NewKeyedLocks()}
}

// Update applies fn to the stored session under the session's lock
func (r *BadgerSessionRepository) Update(ctx context.Context, id string, fn func(*state.Session)) (*state.Session, error) {
	return UpdateSession(ctx, r.locks, r, id, fn)
}

// Get retrieves a session by id
func (r *BadgerSessionRepository) Get(id string) (*state.Session, error) {
	var session state.Session

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})

	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save stores the session and restarts its expiry
func (r *BadgerSessionRepository) Save(session *state.Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}
	session.UpdatedAt = time.Now().UTC()

	data, err := marshalEntity(session)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(session.ID), data)
		if r.ttl > 0 {
			entry = entry.WithTTL(r.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes a session
func (r *BadgerSessionRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := sessionKey(id)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// Count returns the number of live sessions
func (r *BadgerSessionRepository) Count() (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(SessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
