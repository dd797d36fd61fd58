package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConditionType names a condition variant.
type ConditionType string

const (
	ConditionAlways  ConditionType = "Always"
	ConditionWeekday ConditionType = "Weekday"
	ConditionTime    ConditionType = "Time"
	ConditionNot     ConditionType = "Not"
	ConditionAnd     ConditionType = "And"
	ConditionOr      ConditionType = "Or"
)

// Condition decides whether a variant applies at a given time. Only the fields
// of its Type are used.
type Condition struct {
	Type       ConditionType `koanf:"type" json:"type"`
	Weekdays   []string      `koanf:"weekdays" json:"weekdays,omitempty"`
	Start      string        `koanf:"start" json:"start,omitempty"`
	End        string        `koanf:"end" json:"end,omitempty"`
	Condition  *Condition    `koanf:"condition" json:"condition,omitempty"`
	Conditions []Condition   `koanf:"conditions" json:"conditions,omitempty"`
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// Matches reports whether the condition holds at now. A nil condition always
// holds. Call Validate first; malformed conditions never match.
func (c *Condition) Matches(now time.Time) bool {
	if c == nil {
		return true
	}
	switch c.Type {
	case ConditionAlways:
		return true
	case ConditionWeekday:
		for _, name := range c.Weekdays {
			if day, ok := parseWeekday(name); ok && day == now.Weekday() {
				return true
			}
		}
		return false
	case ConditionTime:
		return c.matchesTime(now)
	case ConditionNot:
		return c.Condition != nil && !c.Condition.Matches(now)
	case ConditionAnd:
		for i := range c.Conditions {
			if !c.Conditions[i].Matches(now) {
				return false
			}
		}
		return true
	case ConditionOr:
		for i := range c.Conditions {
			if c.Conditions[i].Matches(now) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchesTime checks the window [Start, End). When Start is after End the
// window wraps midnight. A missing bound is open.
func (c *Condition) matchesTime(now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()
	start, hasStart, err := parseClock(c.Start)
	if err != nil {
		return false
	}
	end, hasEnd, err := parseClock(c.End)
	if err != nil {
		return false
	}

	switch {
	case hasStart && hasEnd && start > end:
		return minute >= start || minute < end
	case hasStart && hasEnd:
		return minute >= start && minute < end
	case hasStart:
		return minute >= start
	case hasEnd:
		return minute < end
	default:
		return true
	}
}

// Validate checks the condition tree.
func (c *Condition) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Type {
	case ConditionAlways:
		return nil
	case ConditionWeekday:
		if len(c.Weekdays) == 0 {
			return fmt.Errorf("%w: weekday condition needs weekdays", ErrInvalidCondition)
		}
		for _, name := range c.Weekdays {
			if _, ok := parseWeekday(name); !ok {
				return fmt.Errorf("%w: unknown weekday %q", ErrInvalidCondition, name)
			}
		}
		return nil
	case ConditionTime:
		if _, _, err := parseClock(c.Start); err != nil {
			return err
		}
		_, _, err := parseClock(c.End)
		return err
	case ConditionNot:
		if c.Condition == nil {
			return fmt.Errorf("%w: not condition needs a condition", ErrInvalidCondition)
		}
		return c.Condition.Validate()
	case ConditionAnd, ConditionOr:
		for i := range c.Conditions {
			if err := c.Conditions[i].Validate(); err != nil {
				return fmt.Errorf("%s[%d]: %w", strings.ToLower(string(c.Type)), i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCondition, c.Type)
	}
}

func parseWeekday(name string) (time.Weekday, bool) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}

// parseClock turns "HH:MM" into minutes after midnight. An empty string is no
// bound.
func parseClock(s string) (int, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return 0, false, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidCondition, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false, fmt.Errorf("%w: time %q has a bad hour", ErrInvalidCondition, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false, fmt.Errorf("%w: time %q has a bad minute", ErrInvalidCondition, s)
	}
	return h*60 + m, true, nil
}
