package task

import (
	"fmt"
	"time"

	"github.com/goliatone/go-taskconfig/input"
	"github.com/goliatone/go-taskconfig/value"
)

// Strategy selects which matching variants apply.
type Strategy string

const (
	// StrategyFirst applies the first matching variant. It is the default.
	StrategyFirst Strategy = "first"
	// StrategyMerge applies every matching variant in order.
	StrategyMerge Strategy = "merge"
)

func (s Strategy) Validate() error {
	switch s {
	case "", StrategyFirst, StrategyMerge:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// Config is the root of a task file.
type Config struct {
	Tasks []Task `koanf:"tasks" json:"tasks"`
}

// Task is one unit of work with parameters.
type Task struct {
	Name     string      `koanf:"name" json:"name,omitempty"`
	Type     string      `koanf:"type" json:"type"`
	Params   value.Value `koanf:"params" json:"params"`
	Strategy Strategy    `koanf:"strategy" json:"strategy,omitempty"`
	Variants []Variant   `koanf:"variants" json:"variants,omitempty"`
}

// Variant overrides task params when its condition holds. A missing condition
// always holds.
type Variant struct {
	Condition *Condition  `koanf:"condition" json:"condition,omitempty"`
	Params    value.Value `koanf:"params" json:"params"`
}

// Resolved is a task ready to run: variants applied and inputs answered.
type Resolved struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Params value.Value `json:"params"`
}

// Validate checks every task.
func (c Config) Validate() error {
	for i := range c.Tasks {
		if err := c.Tasks[i].Validate(); err != nil {
			return &Error{Index: i, Name: c.Tasks[i].Name, Err: err}
		}
	}
	return nil
}

// Validate checks the task type, strategy, params shape and conditions.
func (t *Task) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidTask)
	}
	if err := t.Strategy.Validate(); err != nil {
		return err
	}
	if !t.Params.IsNull() && !t.Params.IsObject() {
		return fmt.Errorf("%w: params must be an object, got %s", ErrInvalidTask, t.Params.Kind())
	}
	for i := range t.Variants {
		v := &t.Variants[i]
		if !v.Params.IsNull() && !v.Params.IsObject() {
			return fmt.Errorf("%w: variant %d params must be an object, got %s", ErrInvalidTask, i, v.Params.Kind())
		}
		if err := v.Condition.Validate(); err != nil {
			return fmt.Errorf("variant %d: %w", i, err)
		}
	}
	return nil
}

// Matching returns the variants that apply at now according to the strategy.
func (t *Task) Matching(now time.Time) []Variant {
	var out []Variant
	for _, v := range t.Variants {
		if !v.Condition.Matches(now) {
			continue
		}
		out = append(out, v)
		if t.Strategy != StrategyMerge {
			break
		}
	}
	return out
}

// ParamsAt builds the params for now without resolving inputs. It reports false
// when the task has variants and none of them match.
func (t *Task) ParamsAt(now time.Time) (value.Value, bool) {
	params := t.Params.Clone()
	if params.IsNull() {
		params = value.New()
	}
	matching := t.Matching(now)
	if len(t.Variants) > 0 && len(matching) == 0 {
		return value.Value{}, false
	}
	for _, v := range matching {
		if v.Params.IsNull() {
			continue
		}
		params.MergeInPlace(v.Params)
	}
	return params, true
}

// Resolve returns the tasks that apply at now with their params merged and
// every pending input answered through a. A nil Asker uses defaults only.
// Tasks whose variants all fail to match are skipped.
func (c *Config) Resolve(a input.Asker, now time.Time) ([]Resolved, error) {
	out := make([]Resolved, 0, len(c.Tasks))
	for i := range c.Tasks {
		t := &c.Tasks[i]
		if err := t.Validate(); err != nil {
			return nil, &Error{Index: i, Name: t.Name, Err: err}
		}
		params, ok := t.ParamsAt(now)
		if !ok {
			continue
		}
		if err := params.Init(a); err != nil {
			return nil, &Error{Index: i, Name: t.Name, Err: err}
		}
		name := t.Name
		if name == "" {
			name = t.Type
		}
		out = append(out, Resolved{Name: name, Type: t.Type, Params: params})
	}
	return out, nil
}
