package appointment

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	firstSlotMinute = 9 * 60
	lastSlotMinute  = 17*60 + 30
	slotStep        = 30
)

// canonicalSlots is the fixed half-hour grid 09:00 .. 17:30.
var canonicalSlots = func() []string {
	var out []string
	for m := firstSlotMinute; m <= lastSlotMinute; m += slotStep {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}()

func CanonicalSlots() []string {
	return slices.Clone(canonicalSlots)
}

// ParseDate accepts YYYY-MM-DD and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseClock accepts HH:MM (24h) and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// CanonicalDate rewrites a date into the stored YYYY-MM-DD form.
func CanonicalDate(s string) (string, error) {
	d, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

// CanonicalClock rewrites a clock time into the stored zero-padded HH:MM form.
func CanonicalClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return formatClock(m), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// civilDate strips the clock off t in its own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startsAt combines the stored date and time. Unparseable values sort first.
func (a Appointment) startsAt() time.Time {
	d, err := ParseDate(a.Date)
	if err != nil {
		return time.Time{}
	}
	m, err := ParseClock(a.Time)
	if err != nil {
		return d
	}
	return d.Add(time.Duration(m) * time.Minute)
}

// sortChronologically orders by date and time, then by numeric id.
func sortChronologically(list []Appointment) {
	slices.SortStableFunc(list, func(a, b Appointment) int {
		if c := a.startsAt().Compare(b.startsAt()); c != 0 {
			return c
		}
		return cmp.Compare(numericID(a.ID), numericID(b.ID))
	})
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
