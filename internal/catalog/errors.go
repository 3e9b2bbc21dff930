package catalog

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("listing not found")

// FetchError marks a failed remote read. Callers fall back to cached or
// empty data and surface a notice instead of failing.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }
