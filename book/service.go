package book

import (
	"context"
	"fmt"
)

/*
 * Service is an API, so it uses pointer semantics; Book is data and travels by value.
 * The service keeps no state between calls: the Repository owns every record.
 */

type UseCase interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, name, author string) (Book, error)
	MarkBorrowed(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	all, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding books: %w", err)
	}
	return all, nil
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	b, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("finding book %s: %w", id, err)
	}
	return b, nil
}

// Create does not validate name or author; the transport layer is responsible for that
func (s *Service) Create(ctx context.Context, name, author string) (Book, error) {
	b := Book{
		Name:   name,
		Author: author,
		Status: Available,
	}
	saved, err := s.Repo.Insert(ctx, b)
	if err != nil {
		return Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return saved, nil
}

// MarkBorrowed is a find followed by an update. If the book is removed in between,
// Update reports ErrNotFound, so a deleted book is never written back.
func (s *Service) MarkBorrowed(ctx context.Context, id string) (Book, error) {
	b, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("finding book %s: %w", id, err)
	}
	updated, err := s.Repo.Update(ctx, b.Borrow())
	if err != nil {
		return Book{}, fmt.Errorf("updating book %s: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.Repo.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("removing book %s: %w", id, err)
	}
	return nil
}
