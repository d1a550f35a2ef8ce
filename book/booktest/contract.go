// Package booktest holds the behaviour every book.Repository implementation must share.
package booktest

import (
	"context"
	"sync"
	"testing"

	"github.com/marcelsud/book-lending/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RepositoryFactory returns an empty repository; cleanup is the caller's job via t.Cleanup
type RepositoryFactory func(t *testing.T) book.Repository

// RunRepositoryContract exercises a Repository implementation against the store contract
func RunRepositoryContract(t *testing.T, newRepo RepositoryFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("find all on empty store", func(t *testing.T) {
		repo := newRepo(t)
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("insert assigns an id", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Insert(ctx, book.Book{Name: "Dune", Author: "Frank Herbert", Status: book.Available})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, "Dune", saved.Name)
		assert.Equal(t, "Frank Herbert", saved.Author)
		assert.Equal(t, book.Available, saved.Status)

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, found)
	})

	t.Run("ids are unique", func(t *testing.T) {
		repo := newRepo(t)
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			saved, err := repo.Insert(ctx, book.Book{Name: "Same", Author: "Same", Status: book.Available})
			require.NoError(t, err)
			assert.False(t, seen[saved.ID], "duplicate id %s", saved.ID)
			seen[saved.ID] = true
		}
	})

	t.Run("find all keeps insertion order", func(t *testing.T) {
		repo := newRepo(t)
		names := []string{"Neuromancer", "Dune", "1984"}
		for _, n := range names {
			_, err := repo.Insert(ctx, book.Book{Name: n, Author: "someone", Status: book.Available})
			require.NoError(t, err)
		}
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, n := range names {
			assert.Equal(t, n, all[i].Name)
		}
	})

	t.Run("find unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("update existing", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Insert(ctx, book.Book{Name: "Dune", Author: "Frank Herbert", Status: book.Available})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, saved.Borrow())
		require.NoError(t, err)
		assert.Equal(t, book.Borrowed, updated.Status)
		assert.Equal(t, saved.ID, updated.ID)

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, book.Borrowed, found.Status)
		assert.Equal(t, "Dune", found.Name)
	})

	t.Run("update unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(ctx, book.Book{ID: "does-not-exist", Name: "x", Author: "y", Status: book.Borrowed})
		assert.ErrorIs(t, err, book.ErrNotFound)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all, "update must not create records")
	})

	t.Run("remove", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Insert(ctx, book.Book{Name: "Dune", Author: "Frank Herbert", Status: book.Available})
		require.NoError(t, err)

		require.NoError(t, repo.Remove(ctx, saved.ID))
		_, err = repo.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, book.ErrNotFound)

		assert.ErrorIs(t, repo.Remove(ctx, saved.ID), book.ErrNotFound)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("concurrent inserts", func(t *testing.T) {
		repo := newRepo(t)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Insert(ctx, book.Book{Name: "Parallel", Author: "Worker", Status: book.Available})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 10)
	})
}
