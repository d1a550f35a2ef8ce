//go:build integration

package redis_test

import (
	"context"
	"sync"
	"testing"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/book/booktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Contract_Integration(t *testing.T) {
	ctx := context.Background()
	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	booktest.RunRepositoryContract(t, func(t *testing.T) book.Repository {
		FlushRedis(t, redisContainer.Addr)
		repo := CreateTestRepository(t, redisContainer.Addr)
		t.Cleanup(func() { _ = repo.Close(ctx) })
		return repo
	})
}

func TestRepository_Keys_Integration(t *testing.T) {
	ctx := context.Background()
	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, redisContainer.Addr)
	defer repo.Close(ctx)

	saved, err := repo.Insert(ctx, book.Book{Name: "Dune", Author: "Frank Herbert", Status: book.Available})
	require.NoError(t, err)

	assert.True(t, KeyExists(t, redisContainer.Addr, "book:"+saved.ID))
	assert.Equal(t, int64(1), ListLength(t, redisContainer.Addr, "books:order"))

	require.NoError(t, repo.Remove(ctx, saved.ID))

	assert.False(t, KeyExists(t, redisContainer.Addr, "book:"+saved.ID))
	assert.Equal(t, int64(0), ListLength(t, redisContainer.Addr, "books:order"))
}

func TestRepository_BorrowDeleteRace_Integration(t *testing.T) {
	ctx := context.Background()
	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, redisContainer.Addr)
	defer repo.Close(ctx)
	svc := book.NewService(repo)

	for i := 0; i < 20; i++ {
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

		_, err = svc.Get(ctx, saved.ID)
		assert.ErrorIs(t, err, book.ErrNotFound, "deleted book came back")
		assert.False(t, KeyExists(t, redisContainer.Addr, "book:"+saved.ID))
	}
}

func TestRepository_UnknownStatus_Integration(t *testing.T) {
	ctx := context.Background()
	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, redisContainer.Addr)
	defer repo.Close(ctx)

	saved, err := repo.Insert(ctx, book.Book{Name: "Dune", Author: "Frank Herbert", Status: book.Available})
	require.NoError(t, err)
	SetHashField(t, redisContainer.Addr, "book:"+saved.ID, "status", "Lost")

	_, err = repo.FindByID(ctx, saved.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, book.ErrNotFound)

	_, err = repo.FindAll(ctx)
	assert.Error(t, err)
}
