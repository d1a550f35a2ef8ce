package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/book-lending/book"
	"gopkg.in/yaml.v3"
)

/* Loader reads an initial catalogue from a books.yaml file
 * and inserts it through the book service.
 */

// Config represents the structure of books.yaml
type Config struct {
	Books []BookConfig `yaml:"books"`
}

// BookConfig represents a single book in the YAML file
type BookConfig struct {
	Name   string `yaml:"name"`
	Author string `yaml:"author"`
	Status string `yaml:"status"` // Default: Available
}

// Entry is a validated catalogue entry
type Entry struct {
	Name   string
	Author string
	Status book.Status
}

// Validate checks that an entry can be inserted
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if e.Author == "" {
		return fmt.Errorf("author cannot be empty for book %q", e.Name)
	}
	if err := e.Status.Validate(); err != nil {
		return fmt.Errorf("invalid status for book %q: %w", e.Name, err)
	}
	return nil
}

// Loader holds the loaded catalogue
type Loader struct {
	entries []Entry
}

// NewLoader creates a new catalogue loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the books.yaml file; nothing is kept when any entry is invalid
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing seed YAML: %w", err)
	}

	entries := make([]Entry, 0, len(config.Books))
	for i, bc := range config.Books {
		status := book.Available
		if bc.Status != "" {
			status, err = book.ParseStatus(bc.Status)
			if err != nil {
				return fmt.Errorf("book %d: %w", i+1, err)
			}
		}

		entry := Entry{
			Name:   bc.Name,
			Author: bc.Author,
			Status: status,
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("validating book %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}

	l.entries = entries
	return nil
}

// List returns the loaded entries in file order
func (l *Loader) List() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Apply creates every loaded entry; borrowed entries are created and then marked borrowed
func (l *Loader) Apply(ctx context.Context, bookService book.UseCase) ([]book.Book, error) {
	created := make([]book.Book, 0, len(l.entries))
	for _, e := range l.entries {
		b, err := bookService.Create(ctx, e.Name, e.Author)
		if err != nil {
			return created, fmt.Errorf("seeding %q: %w", e.Name, err)
		}
		if e.Status == book.Borrowed {
			b, err = bookService.MarkBorrowed(ctx, b.ID)
			if err != nil {
				return created, fmt.Errorf("borrowing seeded %q: %w", e.Name, err)
			}
		}
		created = append(created, b)
	}
	return created, nil
}
