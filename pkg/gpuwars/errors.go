package gpuwars

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is matched by every engine misuse error.
var ErrInvalidOperation = errors.New("invalid operation")

// InvalidOperationError describes a rejected engine call. State is left
// untouched whenever one is returned.
type InvalidOperationError struct {
	Op      string
	Message string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %s: %s", e.Op, e.Message)
}

// Is lets errors.Is(err, ErrInvalidOperation) match.
func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

func invalidOp(op, format string, args ...any) error {
	return &InvalidOperationError{Op: op, Message: fmt.Sprintf(format, args...)}
}
