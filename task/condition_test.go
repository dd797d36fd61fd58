package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// saturday is 2024-06-15, a Saturday.
func saturday(hour, minute int) time.Time {
	return time.Date(2024, 6, 15, hour, minute, 0, 0, time.UTC)
}

func TestConditionMatches(t *testing.T) {
	weekend := Condition{Type: ConditionWeekday, Weekdays: []string{"Sat", "sunday"}}
	weekdaysOnly := Condition{Type: ConditionWeekday, Weekdays: []string{"mon", "TUE", "Wed", "thu", "fri"}}
	night := Condition{Type: ConditionTime, Start: "22:00", End: "06:00"}

	tests := []struct {
		name string
		cond *Condition
		now  time.Time
		want bool
	}{
		{name: "nil", cond: nil, now: saturday(12, 0), want: true},
		{name: "always", cond: &Condition{Type: ConditionAlways}, now: saturday(12, 0), want: true},
		{name: "weekday hit", cond: &weekend, now: saturday(12, 0), want: true},
		{name: "weekday miss", cond: &weekdaysOnly, now: saturday(12, 0), want: false},
		{name: "time inside", cond: &Condition{Type: ConditionTime, Start: "08:00", End: "12:00"}, now: saturday(9, 30), want: true},
		{name: "time end exclusive", cond: &Condition{Type: ConditionTime, Start: "08:00", End: "12:00"}, now: saturday(12, 0), want: false},
		{name: "time start inclusive", cond: &Condition{Type: ConditionTime, Start: "08:00", End: "12:00"}, now: saturday(8, 0), want: true},
		{name: "wrap late", cond: &night, now: saturday(23, 15), want: true},
		{name: "wrap early", cond: &night, now: saturday(5, 59), want: true},
		{name: "wrap outside", cond: &night, now: saturday(12, 0), want: false},
		{name: "open end", cond: &Condition{Type: ConditionTime, Start: "18:00"}, now: saturday(19, 0), want: true},
		{name: "open start", cond: &Condition{Type: ConditionTime, End: "04:00"}, now: saturday(5, 0), want: false},
		{name: "not", cond: &Condition{Type: ConditionNot, Condition: &weekend}, now: saturday(12, 0), want: false},
		{name: "and", cond: &Condition{Type: ConditionAnd, Conditions: []Condition{weekend, night}}, now: saturday(23, 0), want: true},
		{name: "and miss", cond: &Condition{Type: ConditionAnd, Conditions: []Condition{weekend, night}}, now: saturday(12, 0), want: false},
		{name: "or", cond: &Condition{Type: ConditionOr, Conditions: []Condition{weekdaysOnly, night}}, now: saturday(1, 0), want: true},
		{name: "or miss", cond: &Condition{Type: ConditionOr, Conditions: []Condition{weekdaysOnly, night}}, now: saturday(12, 0), want: false},
		{name: "empty and", cond: &Condition{Type: ConditionAnd}, now: saturday(12, 0), want: true},
		{name: "empty or", cond: &Condition{Type: ConditionOr}, now: saturday(12, 0), want: false},
		{name: "unknown", cond: &Condition{Type: "Moon"}, now: saturday(12, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(tt.now))
		})
	}
}

func TestConditionValidate(t *testing.T) {
	tests := []struct {
		name    string
		cond    *Condition
		wantErr bool
	}{
		{name: "nil", cond: nil},
		{name: "always", cond: &Condition{Type: ConditionAlways}},
		{name: "weekday", cond: &Condition{Type: ConditionWeekday, Weekdays: []string{"Mon"}}},
		{name: "weekday empty", cond: &Condition{Type: ConditionWeekday}, wantErr: true},
		{name: "weekday unknown", cond: &Condition{Type: ConditionWeekday, Weekdays: []string{"Funday"}}, wantErr: true},
		{name: "time", cond: &Condition{Type: ConditionTime, Start: "9:05", End: "23:59"}},
		{name: "time bad hour", cond: &Condition{Type: ConditionTime, Start: "24:00"}, wantErr: true},
		{name: "time bad minute", cond: &Condition{Type: ConditionTime, End: "10:60"}, wantErr: true},
		{name: "time bad format", cond: &Condition{Type: ConditionTime, Start: "noon"}, wantErr: true},
		{name: "not missing", cond: &Condition{Type: ConditionNot}, wantErr: true},
		{name: "nested bad", cond: &Condition{Type: ConditionOr, Conditions: []Condition{{Type: ConditionAlways}, {Type: "Moon"}}}, wantErr: true},
		{name: "unknown", cond: &Condition{Type: "Moon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cond.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCondition)
				return
			}
			assert.NoError(t, err)
		})
	}
}
