package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an id lookup miss.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable indicates the underlying database failed or is
	// unreachable. The store never retries; retry policy belongs to
	// the caller.
	ErrUnavailable = errors.New("store unavailable")
)

// unavailable wraps a driver error so callers can detect ErrUnavailable
// with errors.Is while keeping the original cause in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
