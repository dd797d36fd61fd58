package task

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTask      = errors.New("task: invalid task")
	ErrInvalidStrategy  = errors.New("task: invalid strategy")
	ErrInvalidCondition = errors.New("task: invalid condition")
)

// Error ties a failure to the task it came from.
type Error struct {
	Index int
	Name  string
	Err   error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("task %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("task %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
