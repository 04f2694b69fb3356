package balances

import (
	"errors"
	"fmt"
)

var (
	ErrContainerNotFound = errors.New("balances container not found")
	ErrNotAnAccount      = errors.New("balances container is not an account")
	ErrNotAGroup         = errors.New("balances container is not a group")
	ErrNoBook            = errors.New("report has no book to resolve metadata")
)

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrContainerNotFound, name)
}
