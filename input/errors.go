package input

import "errors"

var (
	// ErrNoDefault is returned when a value is needed without a prompt and none was configured.
	ErrNoDefault = errors.New("input: no default value")
	// ErrInvalidInput is returned after MaxAttempts unusable answers.
	ErrInvalidInput = errors.New("input: invalid input")
	// ErrEmptyAlternatives is returned by a Select without alternatives.
	ErrEmptyAlternatives = errors.New("input: select has no alternatives")
	// ErrInvalidDefault is returned by a Select whose default index is out of range.
	ErrInvalidDefault = errors.New("input: default index out of range")
	// ErrNotInteractive is returned by Ask on an Asker that cannot prompt.
	ErrNotInteractive = errors.New("input: not interactive")
)
