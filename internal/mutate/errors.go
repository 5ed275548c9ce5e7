package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidLevel    = errors.New("invalid level")
	ErrEmptyTitle      = errors.New("title required")
)

// NotFoundError reports a stale reference. Callers treat it as a silent no-op.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
