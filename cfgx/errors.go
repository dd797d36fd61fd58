package cfgx

import (
	"errors"
	"fmt"
)

const (
	stageDefaults   = "defaults"
	stageNormalize  = "normalize"
	stagePreprocess = "preprocess"
	stageDecode     = "decode"
	stageValidate   = "validate"
)

var (
	// ErrDefaults reports a default instance that could not be built or copied.
	ErrDefaults = errors.New("cfgx: defaults stage failed")
	// ErrNormalize reports input that could not be turned into decoder data,
	// such as a malformed JSON document.
	ErrNormalize = errors.New("cfgx: normalize stage failed")
	// ErrPreprocess reports a failing preprocessor, pending input resolution included.
	ErrPreprocess = errors.New("cfgx: preprocess stage failed")
	// ErrDecode reports mapstructure failures.
	ErrDecode = errors.New("cfgx: decode stage failed")
	// ErrValidate reports a validator rejecting the decoded value.
	ErrValidate = errors.New("cfgx: validate stage failed")
	// ErrOption reports conflicting or invalid options.
	ErrOption = errors.New("cfgx: option configuration failed")
)

var stageSentinels = map[string]error{
	stageDefaults:   ErrDefaults,
	stageNormalize:  ErrNormalize,
	stagePreprocess: ErrPreprocess,
	stageDecode:     ErrDecode,
	stageValidate:   ErrValidate,
}

// StageError is returned by Build. It matches both the sentinel of the stage
// that failed and the underlying error.
type StageError struct {
	Stage string
	Base  error
	Err   error
	Meta  map[string]any
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *StageError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	return errors.Is(e.Base, target) || errors.Is(e.Err, target)
}

func stageError(stage string, err error, meta map[string]any) error {
	if err == nil {
		return nil
	}
	return &StageError{
		Stage: stage,
		Base:  stageSentinels[stage],
		Err:   err,
		Meta:  meta,
	}
}

func optionError(err error) error {
	return fmt.Errorf("%w: %w", ErrOption, err)
}
