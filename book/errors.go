package book

import "errors"

// ErrNotFound is returned by every Repository implementation when no book has the given ID
var ErrNotFound = errors.New("book not found")
