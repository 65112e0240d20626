// Package remote wraps the REST table service holding the authoritative
// equipment catalog and the exported checklist logs.
package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when a read from the remote store fails,
	// whether by network failure or an error response.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrRemoteWrite is returned when an insert, update or delete fails.
	ErrRemoteWrite = errors.New("remote write failed")
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("remote record not found")
)

func readError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}

func writeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteWrite, op, err)
}
