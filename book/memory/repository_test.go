package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/book/booktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Contract(t *testing.T) {
	booktest.RunRepositoryContract(t, func(t *testing.T) book.Repository {
		return NewRepository()
	})
}

func TestRepository_Insert_RetriesOnCollision(t *testing.T) {
	ids := []string{"a", "a", "b"}
	repo := NewRepository()
	repo.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	ctx := context.Background()

	first, err := repo.Insert(ctx, book.Book{Name: "one"})
	require.NoError(t, err)
	second, err := repo.Insert(ctx, book.Book{Name: "two"})
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestRepository_ConcurrentBorrowAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	svc := book.NewService(repo)

	for i := 0; i < 50; i++ {
		saved, err := svc.Create(ctx, "Race", "Condition")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.MarkBorrowed(ctx, saved.ID)
		}()
		go func() {
			defer wg.Done()
			_ = svc.Delete(ctx, saved.ID)
		}()
		wg.Wait()

		_, err = repo.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, book.ErrNotFound, "a removed book must stay removed")
	}
}

func TestRepository_Close(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_, err := repo.Insert(ctx, book.Book{Name: "Dune"})
	require.NoError(t, err)

	require.NoError(t, repo.Close(ctx))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
