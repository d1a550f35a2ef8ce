package book

import (
	"bytes"
	"fmt"
)

/* Status represents the lending state of a book
 * Follows the lifecycle: Available -> Borrowed
 * There is no transition back to Available yet
 */
type Status int

const (
	Available Status = iota + 1
	Borrowed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Available:
		return "Available"
	case Borrowed:
		return "Borrowed"
	}
	return "Unknown"
}

// ParseStatus creates a Status from its name; unknown names are an error
func ParseStatus(s string) (Status, error) {
	switch s {
	case "Available":
		return Available, nil
	case "Borrowed":
		return Borrowed, nil
	}
	return 0, fmt.Errorf("invalid status: %q", s)
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s != Available && s != Borrowed {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// MarshalJSON encodes the status as its name
func (s Status) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(s.String())
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}
