package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"newsportal/app/models"
	"newsportal/app/state"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	db, err := OpenDB("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBadgerSessionRepository(t *testing.T) {
	repo := NewBadgerSessionRepository(setupTestDB(t), time.Hour)

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save and get", func(t *testing.T) {
		session := state.NewSession("s1")
		session.Admin.List = session.Admin.List.Succeed([]models.Post{{ID: 2, Title: "B", Content: "b"}}, 1)
		session.Admin.Form = session.Admin.Form.SeedCreate().WithFields("Judul", "Isi")
		session.Admin.PendingDelete = 2

		require.NoError(t, repo.Save(session))
		assert.False(t, session.UpdatedAt.IsZero())

		got, err := repo.Get("s1")
		require.NoError(t, err)
		assert.Equal(t, session.Admin.List.Items, got.Admin.List.Items)
		assert.Equal(t, session.Admin.Form, got.Admin.Form)
		assert.Equal(t, 2, got.Admin.PendingDelete)
	})

	t.Run("overwrite", func(t *testing.T) {
		session := state.NewSession("s2")
		require.NoError(t, repo.Save(session))

		session.Admin.Error = "Gagal"
		require.NoError(t, repo.Save(session))

		got, err := repo.Get("s2")
		require.NoError(t, err)
		assert.Equal(t, "Gagal", got.Admin.Error)
	})

	t.Run("requires id", func(t *testing.T) {
		assert.Error(t, repo.Save(&state.Session{}))
		assert.Error(t, repo.Save(nil))
	})

	t.Run("count and delete", func(t *testing.T) {
		n, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, repo.Delete("s1"))
		assert.ErrorIs(t, repo.Delete("s1"), ErrNotFound)

		n, err = repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestBadgerSessionRepositoryTTL(t *testing.T) {
	repo := NewBadgerSessionRepository(setupTestDB(t), time.Second)

	require.NoError(t, repo.Save(state.NewSession("short")))
	_, err := repo.Get("short")
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)
	_, err = repo.Get("short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenDBOnDisk(t *testing.T) {
	dir := t.TempDir() + "/badger"
	db, err := OpenDB(dir)
	require.NoError(t, err)

	repo := NewBadgerSessionRepository(db, 0)
	require.NoError(t, repo.Save(state.NewSession("persist")))
	require.NoError(t, db.Close())

	db, err = OpenDB(dir)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewBadgerSessionRepository(db, 0).Get("persist")
	require.NoError(t, err)
	assert.Equal(t, "persist", got.ID)
}

func TestBadgerSessionRepositoryUpdate(t *testing.T) {
	repo := NewBadgerSessionRepository(setupTestDB(t), time.Hour)
	ctx := context.Background()

	t.Run("starts a new session", func(t *testing.T) {
		got, err := repo.Update(ctx, "fresh", func(s *state.Session) {
			s.Admin.Error = "Gagal"
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got.ID)

		stored, err := repo.Get("fresh")
		require.NoError(t, err)
		assert.Equal(t, "Gagal", stored.Admin.Error)
		assert.NotEmpty(t, stored.Admin.Form.Token)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(ctx, "busy", func(s *state.Session) {
					n := s.Admin.PendingDelete
					time.Sleep(time.Millisecond)
					s.Admin.PendingDelete = n + 1
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.Get("busy")
		require.NoError(t, err)
		assert.Equal(t, 20, got.Admin.PendingDelete)
		assert.Zero(t, repo.locks.Len())
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		hold := make(chan struct{})
		held := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := repo.Update(ctx, "held", func(*state.Session) {
				close(held)
				<-hold
			})
			assert.NoError(t, err)
		}()
		<-held

		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := repo.Update(cctx, "held", func(*state.Session) {
			t.Error("update ran while the session was locked")
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		close(hold)
		<-done
		assert.Zero(t, repo.locks.Len())
	})
}
