package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/book/booktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	repo, err := NewRepository(ctx, filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(ctx) })
	return repo
}

func TestRepository_Contract(t *testing.T) {
	booktest.RunRepositoryContract(t, func(t *testing.T) book.Repository {
		return newTestRepository(t)
	})
}

func TestRepository_InMemory(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(ctx, ":memory:")
	require.NoError(t, err)
	defer repo.Close(ctx)

	saved, err := repo.Insert(ctx, book.Book{Name: "Foundation", Author: "Isaac Asimov", Status: book.Available})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved, all[0])
}

func TestRepository_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books.db")

	repo, err := NewRepository(ctx, path)
	require.NoError(t, err)
	saved, err := repo.Insert(ctx, book.Book{Name: "Foundation", Author: "Isaac Asimov", Status: book.Available})
	require.NoError(t, err)
	_, err = repo.Update(ctx, saved.Borrow())
	require.NoError(t, err)
	require.NoError(t, repo.Close(ctx))

	reopened, err := NewRepository(ctx, path)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	found, err := reopened.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Foundation", found.Name)
	assert.Equal(t, book.Borrowed, found.Status)
}

func TestRepository_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	saved, err := repo.Insert(ctx, book.Book{Name: "Foundation", Author: "Isaac Asimov", Status: book.Available})
	require.NoError(t, err)
	_, err = repo.DB.ExecContext(ctx, `UPDATE books SET status = 'borrowed' WHERE id = ?`, saved.ID)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, saved.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, book.ErrNotFound)
	assert.Contains(t, err.Error(), `invalid status: "borrowed"`)

	all, err := repo.FindAll(ctx)
	assert.Error(t, err)
	assert.Nil(t, all)
}
