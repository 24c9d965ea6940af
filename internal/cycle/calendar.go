package cycle

import "time"

const dayKeyLayout = "2006-01-02"

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
// Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -offset)
}

// NextWeekStart returns the Monday after the week containing t.
func NextWeekStart(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 7)
}

// MonthStart returns the first day of t's month at 00:00.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Calendar pins the window arithmetic to the office timezone so every caller
// agrees on where a week begins.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.Location())
}

func (c Calendar) WeekStart(t time.Time) time.Time {
	return WeekStart(c.In(t))
}

func (c Calendar) NextWeekStart(t time.Time) time.Time {
	return NextWeekStart(c.In(t))
}

func (c Calendar) MonthStart(t time.Time) time.Time {
	return MonthStart(c.In(t))
}

// DayKey formats t as YYYY-MM-DD in the calendar's timezone.
func (c Calendar) DayKey(t time.Time) string {
	return c.In(t).Format(dayKeyLayout)
}
