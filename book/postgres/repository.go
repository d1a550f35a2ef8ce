package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/book-lending/book"
)

/*
PostgreSQL implementation of book.Repository

- IDs are generated by the database (gen_random_uuid) and returned with RETURNING
- seq keeps insertion order for FindAll
- every operation is a single statement, so it is atomic on its own
*/

const (
	selectQuery    = "SELECT id, name, author, status FROM books WHERE id = $1"
	selectAllQuery = "SELECT id, name, author, status FROM books ORDER BY seq"
	insertQuery    = "INSERT INTO books (name, author, status) VALUES ($1, $2, $3) RETURNING id"
	updateQuery    = "UPDATE books SET name = $1, author = $2, status = $3 WHERE id = $4"
	deleteQuery    = "DELETE FROM books WHERE id = $1"

	createTableQuery = `CREATE TABLE IF NOT EXISTS books (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE DEFAULT gen_random_uuid()::text,
	name TEXT NOT NULL,
	author TEXT NOT NULL,
	status TEXT NOT NULL
)`
	dropTableQuery = "DROP TABLE IF EXISTS books CASCADE"
)

type Repository struct {
	DB *sql.DB
}

// NewRepository creates a PostgreSQL repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a PostgreSQL repository with a custom pool
// maxOpenConns: maximum simultaneous connections (0 = unlimited)
// maxIdleConns: idle connections kept in the pool
// maxLifeMinutes: how long a connection may be reused
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// FindByID returns a book by ID
func (r *Repository) FindByID(ctx context.Context, id string) (book.Book, error) {
	var (
		b      book.Book
		status string
	)
	err := r.DB.QueryRowContext(ctx, selectQuery, id).Scan(&b.ID, &b.Name, &b.Author, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	if b.Status, err = book.ParseStatus(status); err != nil {
		return book.Book{}, fmt.Errorf("reading book %s: %w", b.ID, err)
	}
	return b, nil
}

// FindAll returns every book in insertion order
func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	rows, err := r.DB.QueryContext(ctx, selectAllQuery)
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var (
			b      book.Book
			status string
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Author, &status); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		if b.Status, err = book.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("reading book %s: %w", b.ID, err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

// Insert stores a new book and returns it with the generated ID
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	err := r.DB.QueryRowContext(ctx, insertQuery, b.Name, b.Author, b.Status.String()).Scan(&b.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return b, nil
}

// Update replaces name, author and status of an existing book
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	result, err := r.DB.ExecContext(ctx, updateQuery, b.Name, b.Author, b.Status.String(), b.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return book.Book{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return book.Book{}, book.ErrNotFound
	}

	return b, nil
}

// Remove deletes a book by ID
func (r *Repository) Remove(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return book.ErrNotFound
	}

	return nil
}

// Close closes the database connection
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable creates the books table if needed; gen_random_uuid needs PostgreSQL 13+
func (r *Repository) CreateTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, createTableQuery)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

// DropTable removes the books table
func (r *Repository) DropTable(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, dropTableQuery)
	if err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	return nil
}
