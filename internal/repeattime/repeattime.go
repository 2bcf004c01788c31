// Package repeattime parses and evaluates the compact recurrence spec
// attached to repeat tasks: "bits|HH:MM|HH:MM". Bits 0-6 select
// Sunday..Saturday, bit 7 excludes public holidays, and the two times
// bound the generated matter within a day.
package repeattime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedSpec is returned when a spec string cannot be parsed
var ErrMalformedSpec = errors.New("malformed repeat time spec")

// ExcludeHolidaysBit marks a spec that skips public holidays
const ExcludeHolidaysBit = 1 << 7

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Value is a decoded repeat time spec
type Value struct {
	WeekdayBits int
	Start       string
	End         string
}

// Parse decodes a spec string. It fails when the spec does not split into
// exactly three parts or the bitmask is not an integer; a malformed spec
// is rejected whole, never partially applied.
func Parse(spec string) (Value, error) {
	parts := strings.Split(spec, "|")
	if len(parts) != 3 {
		return Value{}, fmt.Errorf("%w: expected 3 fields, got %d in %q", ErrMalformedSpec, len(parts), spec)
	}

	bits, err := strconv.Atoi(parts[0])
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid weekday bitmask %q", ErrMalformedSpec, parts[0])
	}

	return Value{WeekdayBits: bits, Start: parts[1], End: parts[2]}, nil
}

// String re-encodes the value; String(Parse(s)) == s for well-formed input
func (v Value) String() string {
	return fmt.Sprintf("%d|%s|%s", v.WeekdayBits, v.Start, v.End)
}

// ExcludeHolidays reports whether the holiday-exclusion bit is set
func (v Value) ExcludeHolidays() bool {
	return v.WeekdayBits&ExcludeHolidaysBit != 0
}

// OnWeekday reports whether the weekday's bit is set
func (v Value) OnWeekday(d time.Weekday) bool {
	return v.WeekdayBits&(1<<int(d)) != 0
}

// ScheduledFor reports whether the spec is active on the given date.
// isHoliday is consulted only when the holiday-exclusion bit is set.
func (v Value) ScheduledFor(date time.Time, isHoliday func(time.Time) bool) bool {
	if !v.OnWeekday(date.Weekday()) {
		return false
	}
	if v.ExcludeHolidays() && isHoliday != nil && isHoliday(date) {
		return false
	}
	return true
}

// TimeRange combines the date with the spec's start and end times of day,
// in the date's location. No timezone conversion beyond "local".
func (v Value) TimeRange(date time.Time) (time.Time, time.Time, error) {
	start, err := atTimeOfDay(date, v.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atTimeOfDay(date, v.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func atTimeOfDay(date time.Time, timeOfDay string) (time.Time, error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: invalid time of day %q", ErrMalformedSpec, timeOfDay)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time of day %q", ErrMalformedSpec, timeOfDay)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time of day %q", ErrMalformedSpec, timeOfDay)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}

// Describe renders the weekday selection as human-readable text, used in
// the AI reminder digest
func (v Value) Describe() string {
	daysOnly := v.WeekdayBits &^ ExcludeHolidaysBit

	var selected []int
	for day := 0; day < 7; day++ {
		if daysOnly&(1<<day) != 0 {
			selected = append(selected, day)
		}
	}

	isWorkdays := len(selected) == 5 && daysOnly == 0b0111110
	isEveryDay := len(selected) == 7

	switch {
	case isWorkdays && v.ExcludeHolidays():
		return "workdays"
	case isWorkdays:
		return "Mon to Fri"
	case isEveryDay && v.ExcludeHolidays():
		return "every day excl. holidays"
	case isEveryDay:
		return "every day"
	}

	labels := make([]string, 0, len(selected))
	for _, day := range selected {
		labels = append(labels, weekdayLabels[day])
	}
	description := strings.Join(labels, " ")
	if v.ExcludeHolidays() {
		return description + " excl. holidays"
	}
	return description
}
