package timetable

import "time"

// DateLayout is the ISO calendar-date format used for all date keys.
const DateLayout = "2006-01-02"

// London is the fixed zone every window is anchored to.
var London = loadLondon()

func loadLondon() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.FixedZone("GMT", 0)
	}
	return loc
}

// NowInLondon returns the current wall-clock time in Europe/London.
func NowInLondon() time.Time {
	return time.Now().In(London)
}

// Kind selects how a Window's date range was constructed.
type Kind string

const (
	KindRolling Kind = "rolling"
	KindYear    Kind = "year"
	KindRamadan Kind = "ramadan"
)

// Window is an ordered, gap-free, ascending sequence of calendar dates
// plus the descriptor metadata that ends up in the payload. Dates are
// held at UTC midnight so day iteration is unaffected by DST.
type Window struct {
	Kind  Kind
	Dates []time.Time

	// EffectiveToday is set for rolling windows; Year for calendar-year
	// windows; RamadanYear plus Start/End for Ramadan windows.
	EffectiveToday time.Time
	Year           int
	RamadanYear    int
	Start          time.Time
	End            time.Time
}

// Rolling builds a window of n consecutive days starting on the
// calendar date of the given moment (interpreted in its own zone).
func Rolling(now time.Time, n int) Window {
	today := midnight(now.Year(), now.Month(), now.Day())
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return Window{
		Kind:           KindRolling,
		Dates:          dates,
		EffectiveToday: today,
	}
}

// CalendarYear builds a window covering Jan 1 through Dec 31 of year.
func CalendarYear(year int) Window {
	start := midnight(year, time.January, 1)
	end := midnight(year, time.December, 31)
	return Window{
		Kind:  KindYear,
		Dates: datesBetween(start, end),
		Year:  year,
		Start: start,
		End:   end,
	}
}

// RamadanWindow builds a window over an inclusive Gregorian date range
// delimiting Ramadan for the given target year.
func RamadanWindow(year int, start, end time.Time) Window {
	start = midnight(start.Year(), start.Month(), start.Day())
	end = midnight(end.Year(), end.Month(), end.Day())
	return Window{
		Kind:        KindRamadan,
		Dates:       datesBetween(start, end),
		RamadanYear: year,
		Start:       start,
		End:         end,
	}
}

// Years returns the distinct calendar years spanned by the window,
// ascending. These are the provider years that must be fetched.
func (w Window) Years() []int {
	var years []int
	for _, d := range w.Dates {
		y := d.Year()
		if len(years) == 0 || years[len(years)-1] != y {
			years = append(years, y)
		}
	}
	return years
}

func midnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// datesBetween walks one day at a time from start to end inclusive.
func datesBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
