package ostinato

import (
	"errors"
	"fmt"
)

// Error kinds returned by operation bodies.
var (
	ErrValidation  = errors.New("validation")
	ErrNoOp        = errors.New("unchanged")
	ErrPersistence = errors.New("persistence")
)

// Result statuses.
const (
	StatusOK        = "ok"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
)

// OpError carries the caller facing message and its kind.
type OpError struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *OpError) Error() string { return e.Msg }

func (e *OpError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func rejectf(format string, args ...any) error {
	return &OpError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func unchangedf(format string, args ...any) error {
	return &OpError{Kind: ErrNoOp, Msg: fmt.Sprintf(format, args...)}
}

func persistence(cause error) error {
	return &OpError{Kind: ErrPersistence, Msg: cause.Error(), Cause: cause}
}
