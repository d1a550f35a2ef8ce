package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/marcelsud/book-lending/book"
)

/* In-memory implementation of book.Repository
 * Records live for the lifetime of the process. Every operation takes the lock,
 * so a single insert, update, remove or find is atomic.
 */

type Repository struct {
	mu    sync.RWMutex
	books map[string]book.Book
	order []string
	newID func() string
}

// NewRepository creates an empty store that generates UUID identifiers
func NewRepository() *Repository {
	return &Repository{
		books: make(map[string]book.Book),
		newID: uuid.NewString,
	}
}

// FindByID returns the book with the given ID
func (r *Repository) FindByID(ctx context.Context, id string) (book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

// FindAll returns every book in insertion order
func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]book.Book, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.books[id])
	}
	return all, nil
}

// Insert stores a copy of the book under a freshly generated ID
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, exists := r.books[id]; exists; _, exists = r.books[id] {
		id = r.newID()
	}
	b.ID = id
	r.books[id] = b
	r.order = append(r.order, id)
	return b, nil
}

// Update replaces the stored record; it never creates one
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return book.Book{}, book.ErrNotFound
	}
	r.books[b.ID] = b
	return b, nil
}

// Remove deletes the book with the given ID
func (r *Repository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(r.books, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

// Close drops every record
func (r *Repository) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books = make(map[string]book.Book)
	r.order = nil
	return nil
}
