package value

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch matches every *TypeMismatchError.
	ErrTypeMismatch = errors.New("value: type mismatch")
	// ErrResolution matches every *ResolutionError.
	ErrResolution = errors.New("value: input resolution failed")
	// ErrInvalidNumber is returned for numbers that fit neither int64 nor float64,
	// and for NaN or infinite floats on encode.
	ErrInvalidNumber = errors.New("value: invalid number")
	// ErrUnsupported is returned when a Go value or wire shape has no Value form.
	ErrUnsupported = errors.New("value: unsupported data")
)

// TypeMismatchError reports a coercion to a type the value does not hold.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("value: type mismatch: want %s, got %s", e.Want, e.Got)
}

// Is makes errors.Is(err, ErrTypeMismatch) succeed.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ResolutionError wraps a failure of the input backend. Path is the dotted
// location of the pending node when known.
type ResolutionError struct {
	Path string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("value: resolve %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("value: resolve %s at %q: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes the input error so callers can match input sentinels.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrResolution) succeed.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// ContractError is the panic value raised when an object-only operation is used
// on another kind. It signals a caller bug and is never returned as an error.
type ContractError struct {
	Op   string
	Kind Kind
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("value: %s called on %s, want object", e.Op, e.Kind)
}
