package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/book-lending/book"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of book.Repository
 * Each book is a hash (book:{id}); insertion order lives in a list (books:order).
 * Writes that touch both keys run as Lua scripts so they are atomic on the server.
 */

const (
	hashPrefix = "book"        // Hash naming: book:{book_id}
	orderKey   = "books:order" // List of book ids in insertion order

	maxInsertAttempts = 5
)

// KEYS[1] = hash, KEYS[2] = order list; ARGV = id, name, author, status
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "id", ARGV[1], "name", ARGV[2], "author", ARGV[3], "status", ARGV[4])
redis.call("RPUSH", KEYS[2], ARGV[1])
return 1
`)

// KEYS[1] = hash; ARGV = name, author, status
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "name", ARGV[1], "author", ARGV[2], "status", ARGV[3])
return 1
`)

// KEYS[1] = hash, KEYS[2] = order list; ARGV[1] = id
var removeScript = redis.NewScript(`
if redis.call("DEL", KEYS[1]) == 0 then
  return 0
end
redis.call("LREM", KEYS[2], 0, ARGV[1])
return 1
`)

type Repository struct {
	client *redis.Client
	newID  func() string
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
		newID:  uuid.NewString,
	}, nil
}

func hashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func fromHash(data map[string]string) (book.Book, error) {
	status, err := book.ParseStatus(data["status"])
	if err != nil {
		return book.Book{}, fmt.Errorf("reading book %s: %w", data["id"], err)
	}
	return book.Book{
		ID:     data["id"],
		Name:   data["name"],
		Author: data["author"],
		Status: status,
	}, nil
}

// FindByID retrieves a book from its hash
func (r *Repository) FindByID(ctx context.Context, id string) (book.Book, error) {
	data, err := r.client.HGetAll(ctx, hashKey(id)).Result()
	if err != nil {
		return book.Book{}, fmt.Errorf("getting book: %w", err)
	}
	if len(data) == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return fromHash(data)
}

// FindAll walks the order list and fetches every hash in one pipeline
func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	ids, err := r.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing book ids: %w", err)
	}

	books := make([]book.Book, 0, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, hashKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("getting books: %w", err)
	}

	for _, cmd := range cmds {
		data := cmd.Val()
		// removed between LRANGE and HGETALL
		if len(data) == 0 {
			continue
		}
		b, err := fromHash(data)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

// Insert stores a new book under a fresh id
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		b.ID = r.newID()
		created, err := insertScript.Run(ctx, r.client,
			[]string{hashKey(b.ID), orderKey},
			b.ID, b.Name, b.Author, b.Status.String(),
		).Int()
		if err != nil {
			return book.Book{}, fmt.Errorf("inserting book: %w", err)
		}
		if created == 1 {
			return b, nil
		}
	}
	return book.Book{}, fmt.Errorf("inserting book: no free id after %d attempts", maxInsertAttempts)
}

// Update overwrites an existing book; a missing hash is never recreated
func (r *Repository) Update(ctx context.Context, b book.Book) (book.Book, error) {
	updated, err := updateScript.Run(ctx, r.client,
		[]string{hashKey(b.ID)},
		b.Name, b.Author, b.Status.String(),
	).Int()
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}
	if updated == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

// Remove deletes the hash and its entry in the order list
func (r *Repository) Remove(ctx context.Context, id string) error {
	removed, err := removeScript.Run(ctx, r.client, []string{hashKey(id), orderKey}, id).Int()
	if err != nil {
		return fmt.Errorf("removing book: %w", err)
	}
	if removed == 0 {
		return book.ErrNotFound
	}
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}
