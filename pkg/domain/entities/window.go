package entities

import (
	"fmt"
	"time"
)

// Window is the trailing twelve closed months, half-open [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the window ending at the first day of the month of now
func NewWindow(now time.Time) Window {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{
		Start: end.AddDate(-1, 0, 0),
		End:   end,
	}
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ContainsDate tests a spreadsheet date by its wall clock, ignoring the
// zone it was parsed in. Spreadsheet dates carry no zone.
func (w Window) ContainsDate(t time.Time) bool {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), w.Start.Location())
	return w.Contains(wall)
}

// StartPeriod returns the first period inside the window (year*100+month)
func (w Window) StartPeriod() int {
	return PeriodOf(w.Start.Year(), int(w.Start.Month()))
}

// EndPeriod returns the first period past the window
func (w Window) EndPeriod() int {
	return PeriodOf(w.End.Year(), int(w.End.Month()))
}

// ContainsPeriod applies the same half-open rule to year*100+month periods
func (w Window) ContainsPeriod(period int) bool {
	return period >= w.StartPeriod() && period < w.EndPeriod()
}

// Years lists the calendar years the window touches
func (w Window) Years() []int {
	first := w.Start.Year()
	last := w.End.AddDate(0, 0, -1).Year()
	years := []int{first}
	if last != first {
		years = append(years, last)
	}
	return years
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// PeriodOf encodes a year and month for ordering
func PeriodOf(year, month int) int {
	return year*100 + month
}
