package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for a page below 1, a non-positive page
// size or an empty detail reference.
var ErrInvalidArgument = errors.New("invalid argument")

// NotFoundError reports that a by-name lookup matched nothing upstream.
type NotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pokemon %q not found", e.Name)
}
