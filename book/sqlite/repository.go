package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/marcelsud/book-lending/book"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

/* SQLite implementation of book.Repository
 * Embedded, file backed (or ":memory:"), no CGO.
 * A single connection is used: SQLite serializes writers anyway and an in-memory
 * database only exists on the connection that created it.
 */

const (
	selectQuery    = `SELECT id, name, author, status FROM books WHERE id = ?`
	selectAllQuery = `SELECT id, name, author, status FROM books ORDER BY seq`
	insertQuery    = `INSERT INTO books (id, name, author, status) VALUES (:id, :name, :author, :status)`
	updateQuery    = `UPDATE books SET name = :name, author = :author, status = :status WHERE id = :id`
	deleteQuery    = `DELETE FROM books WHERE id = ?`

	createTableQuery = `CREATE TABLE IF NOT EXISTS books (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  author TEXT NOT NULL,
  status TEXT NOT NULL
)`
)

type row struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Author string `db:"author"`
	Status string `db:"status"`
}

func toRow(b book.Book) row {
	return row{ID: b.ID, Name: b.Name, Author: b.Author, Status: b.Status.String()}
}

func (r row) book() (book.Book, error) {
	status, err := book.ParseStatus(r.Status)
	if err != nil {
		return book.Book{}, fmt.Errorf("reading book %s: %w", r.ID, err)
	}
	return book.Book{ID: r.ID, Name: r.Name, Author: r.Author, Status: status}, nil
}

type Repository struct {
	DB *sqlx.DB
}

// NewRepository opens (or creates) the database at path and makes sure the schema exists
func NewRepository(ctx context.Context, path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	r := &Repository{DB: db}
	if err := r.CreateTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (book.Book, error) {
	var found row
	err := r.DB.GetContext(ctx, &found, selectQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return found.book()
}

func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	var rows []row
	if err := r.DB.SelectContext(ctx, &rows, selectAllQuery); err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}

	books := make([]book.Book, 0, len(rows))
	for _, found := range rows {
		b, err := found.book()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	b.ID = uuid.NewString()
	if _, err := r.DB.NamedExecContext(ctx, insertQuery, toRow(b)); err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return b, nil
}

func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	result, err := r.DB.NamedExecContext(ctx, updateQuery, toRow(b))
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return book.Book{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateTable(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	if err := r.DB.Close(); err != nil {
		return fmt.Errorf("closing repository: %w", err)
	}
	return nil
}
