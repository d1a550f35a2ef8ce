package book

import "context"

/* Small interfaces: readers and writers are composed into a Repository
 * Implementations live in sub-packages (memory, sqlite, postgres, redis)
 */

type Reader interface {
	FindByID(ctx context.Context, id string) (Book, error)
	// FindAll returns an empty slice, not an error, when nothing is stored
	FindAll(ctx context.Context) ([]Book, error)
}

type Writer interface {
	// Insert assigns a new ID and returns the stored copy
	Insert(ctx context.Context, book Book) (Book, error)
	// Update replaces name, author and status of an existing book; ErrNotFound otherwise
	Update(ctx context.Context, book Book) (Book, error)
	Remove(ctx context.Context, id string) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
