package input

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxAttempts bounds how many times an interactive prompt is repeated after an
// empty or unparsable answer.
const MaxAttempts = 3

// Scalar lists the payload types a free-form or select input can produce.
type Scalar interface {
	int64 | float64 | string
}

// Asker is the backend that talks to the user. Implementations decide whether a
// prompt can be shown at all; when Interactive reports false descriptors fall back
// to their defaults without calling Ask.
type Asker interface {
	Interactive() bool
	Ask(prompt string) (string, error)
}

// UserInput is a pending scalar of type T: either a free-form Input or a Select.
type UserInput[T Scalar] interface {
	Resolve(a Asker) (T, error)
	Clone() UserInput[T]
	userInput()
}

// Input asks for a free-form value with an optional default.
type Input[T Scalar] struct {
	Default     *T
	Description *string
}

// Select asks the user to pick one of a fixed list of alternatives. DefaultIndex is
// 1-based, matching the numbers shown in the prompt.
type Select[T Scalar] struct {
	Alternatives []T
	DefaultIndex *int
	Description  *string
}

// BoolInput asks a yes/no question.
type BoolInput struct {
	Default     *bool
	Description *string
}

func (*Input[T]) userInput()  {}
func (*Select[T]) userInput() {}

// Option configures a descriptor built with NewInput, NewSelect or NewBoolInput.
type Option func(*settings)

type settings struct {
	def          any
	description  *string
	defaultIndex *int
}

// WithDefault sets the default value. The value must match the descriptor type,
// otherwise it is ignored.
func WithDefault(v any) Option {
	return func(s *settings) {
		s.def = v
	}
}

// WithDescription sets the text shown in prompts.
func WithDescription(desc string) Option {
	return func(s *settings) {
		s.description = &desc
	}
}

// WithDefaultIndex sets the 1-based default alternative of a Select.
func WithDefaultIndex(idx int) Option {
	return func(s *settings) {
		s.defaultIndex = &idx
	}
}

func collect(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// NewInput builds a free-form descriptor.
func NewInput[T Scalar](opts ...Option) *Input[T] {
	s := collect(opts)
	in := &Input[T]{Description: s.description}
	if d, ok := s.def.(T); ok {
		in.Default = &d
	}
	return in
}

// NewSelect builds a select descriptor over alternatives.
func NewSelect[T Scalar](alternatives []T, opts ...Option) *Select[T] {
	s := collect(opts)
	return &Select[T]{
		Alternatives: append([]T(nil), alternatives...),
		DefaultIndex: s.defaultIndex,
		Description:  s.description,
	}
}

// NewBoolInput builds a yes/no descriptor.
func NewBoolInput(opts ...Option) *BoolInput {
	s := collect(opts)
	in := &BoolInput{Description: s.description}
	if d, ok := s.def.(bool); ok {
		in.Default = &d
	}
	return in
}

// Resolve returns the answer for in. A nil Asker is treated as non-interactive
// and a nil in behaves like an input without default or description.
func (in *Input[T]) Resolve(a Asker) (T, error) {
	var zero T
	if in == nil {
		in = &Input[T]{}
	}
	if !interactive(a) {
		if in.Default != nil {
			return *in.Default, nil
		}
		return zero, noDefault(in.Description)
	}

	prompt := in.prompt()
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		line, err := a.Ask(prompt)
		if err != nil {
			return zero, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if in.Default != nil {
				return *in.Default, nil
			}
			continue
		}
		v, err := parseScalar[T](line)
		if err != nil {
			continue
		}
		return v, nil
	}
	return zero, fmt.Errorf("%w: %s", ErrInvalidInput, describe(in.Description, typeName[T]()))
}

// Clone returns a deep copy.
func (in *Input[T]) Clone() UserInput[T] {
	if in == nil {
		return (*Input[T])(nil)
	}
	return &Input[T]{
		Default:     clonePtr(in.Default),
		Description: clonePtr(in.Description),
	}
}

func (in *Input[T]) prompt() string {
	var b strings.Builder
	b.WriteString("Please input ")
	b.WriteString(describe(in.Description, typeName[T]()))
	if in.Default != nil {
		fmt.Fprintf(&b, " [default: %v]", *in.Default)
	}
	b.WriteString(": ")
	return b.String()
}

// Resolve returns the selected alternative. A nil Asker is treated as non-interactive.
func (s *Select[T]) Resolve(a Asker) (T, error) {
	var zero T
	if s == nil {
		return zero, fmt.Errorf("%w: %s", ErrEmptyAlternatives, typeName[T]())
	}
	if len(s.Alternatives) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrEmptyAlternatives, describe(s.Description, typeName[T]()))
	}
	if s.DefaultIndex != nil && (*s.DefaultIndex < 1 || *s.DefaultIndex > len(s.Alternatives)) {
		return zero, fmt.Errorf("%w: index %d not in 1..%d", ErrInvalidDefault, *s.DefaultIndex, len(s.Alternatives))
	}

	if !interactive(a) {
		if s.DefaultIndex != nil {
			return s.Alternatives[*s.DefaultIndex-1], nil
		}
		return zero, noDefault(s.Description)
	}

	prompt := s.prompt()
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		line, err := a.Ask(prompt)
		if err != nil {
			return zero, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if s.DefaultIndex != nil {
				return s.Alternatives[*s.DefaultIndex-1], nil
			}
			continue
		}
		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(s.Alternatives) {
			continue
		}
		return s.Alternatives[idx-1], nil
	}
	return zero, fmt.Errorf("%w: %s", ErrInvalidInput, describe(s.Description, typeName[T]()))
}

// Clone returns a deep copy.
func (s *Select[T]) Clone() UserInput[T] {
	if s == nil {
		return (*Select[T])(nil)
	}
	return &Select[T]{
		Alternatives: append([]T(nil), s.Alternatives...),
		DefaultIndex: clonePtr(s.DefaultIndex),
		Description:  clonePtr(s.Description),
	}
}

func (s *Select[T]) prompt() string {
	var b strings.Builder
	for i, alt := range s.Alternatives {
		fmt.Fprintf(&b, "%d. %v", i+1, alt)
		if s.DefaultIndex != nil && *s.DefaultIndex == i+1 {
			b.WriteString(" (default)")
		}
		b.WriteByte('\n')
	}
	b.WriteString("Please select ")
	b.WriteString(describe(s.Description, typeName[T]()))
	if s.DefaultIndex != nil {
		fmt.Fprintf(&b, " [default: %d]", *s.DefaultIndex)
	}
	b.WriteString(": ")
	return b.String()
}

// Resolve returns the answer for in. A nil Asker is treated as non-interactive.
func (in *BoolInput) Resolve(a Asker) (bool, error) {
	if in == nil {
		in = &BoolInput{}
	}
	if !interactive(a) {
		if in.Default != nil {
			return *in.Default, nil
		}
		return false, noDefault(in.Description)
	}

	prompt := in.prompt()
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		line, err := a.Ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		case "":
			if in.Default != nil {
				return *in.Default, nil
			}
		}
	}
	return false, fmt.Errorf("%w: %s", ErrInvalidInput, describe(in.Description, "bool"))
}

// Clone returns a deep copy.
func (in *BoolInput) Clone() *BoolInput {
	if in == nil {
		return nil
	}
	return &BoolInput{
		Default:     clonePtr(in.Default),
		Description: clonePtr(in.Description),
	}
}

func (in *BoolInput) prompt() string {
	hint := "[y/n]"
	if in.Default != nil {
		if *in.Default {
			hint = "[Y/n]"
		} else {
			hint = "[y/N]"
		}
	}
	return fmt.Sprintf("Whether to %s %s: ", describe(in.Description, "enable"), hint)
}

func interactive(a Asker) bool {
	return a != nil && a.Interactive()
}

func describe(desc *string, fallback string) string {
	if desc != nil && *desc != "" {
		return *desc
	}
	return fallback
}

func noDefault(desc *string) error {
	if desc != nil && *desc != "" {
		return fmt.Errorf("%w: %s", ErrNoDefault, *desc)
	}
	return ErrNoDefault
}

func parseScalar[T Scalar](s string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return out, err
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return out, err
		}
		*p = v
	case *string:
		*p = s
	}
	return out, nil
}

func typeName[T Scalar]() string {
	var zero T
	switch any(zero).(type) {
	case int64:
		return "an integer"
	case float64:
		return "a number"
	default:
		return "a string"
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
