// Package calendar answers working-day questions: which calendar days count
// toward schedule durations given a weekend mask and a holiday set. All dates
// are whole days at UTC midnight; DateOf normalizes arbitrary timestamps.
package calendar

import "time"

// Holiday is a single non-working date. Recurring holidays apply to the same
// month and day of every year.
type Holiday struct {
	Date      time.Time
	Recurring bool
}

// Calendar decides whether a given day is a working day. The zero value is
// not usable; construct with New.
type Calendar struct {
	weekend   map[time.Weekday]bool
	fixed     map[string]bool // keyed by "2006-01-02"
	recurring map[string]bool // keyed by "01-02", expanded per year on lookup
}

// DefaultWeekend is the weekend mask applied when an installation has no
// explicit setting: Sunday (0) and Saturday (6).
var DefaultWeekend = []int{0, 6}

// New builds a Calendar from weekday indices (0 = Sunday … 6 = Saturday)
// and a holiday list. Out-of-range weekday indices are ignored.
func New(weekendDays []int, holidays []Holiday) *Calendar {
	c := &Calendar{
		weekend:   make(map[time.Weekday]bool, len(weekendDays)),
		fixed:     make(map[string]bool),
		recurring: make(map[string]bool),
	}
	for _, wd := range weekendDays {
		if wd >= 0 && wd <= 6 {
			c.weekend[time.Weekday(wd)] = true
		}
	}
	for _, h := range holidays {
		d := DateOf(h.Date)
		if h.Recurring {
			c.recurring[d.Format("01-02")] = true
		} else {
			c.fixed[d.Format("2006-01-02")] = true
		}
	}
	return c
}

// DateOf truncates t to UTC midnight.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether d is neither a weekend day nor a holiday.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	d = DateOf(d)
	if c.weekend[d.Weekday()] {
		return false
	}
	if c.fixed[d.Format("2006-01-02")] {
		return false
	}
	return !c.recurring[d.Format("01-02")]
}

// NextWorkingDay returns the smallest working day greater than or equal to d.
func (c *Calendar) NextWorkingDay(d time.Time) time.Time {
	d = DateOf(d)
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkingDays walks forward from d one calendar day at a time, counting
// only working days, until n of them have been consumed. n = 0 returns d
// unchanged without snapping; callers that need snapping use NextWorkingDay.
// Walking day by day keeps the semantics unambiguous no matter how dense the
// holiday set is. Negative n is treated as zero.
func (c *Calendar) AddWorkingDays(d time.Time, n int) time.Time {
	d = DateOf(d)
	for remaining := n; remaining > 0; {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			remaining--
		}
	}
	return d
}

// WorkingDaysBetween counts working days strictly after a and up to and
// including b. Swapped arguments yield the same (absolute) count.
func (c *Calendar) WorkingDaysBetween(a, b time.Time) int {
	a, b = DateOf(a), DateOf(b)
	if a.Equal(b) {
		return 0
	}
	if b.Before(a) {
		a, b = b, a
	}
	n := 0
	for d := a.AddDate(0, 0, 1); !d.After(b); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}
