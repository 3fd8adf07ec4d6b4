// Package ramadan resolves the Gregorian date range of Ramadan (the
// 9th Hijri month) for a target Gregorian year, using the Umm al-Qura
// calendar tables.
package ramadan

import (
	"fmt"
	"time"

	"github.com/hablullah/go-hijri"
)

const ramadanMonth = 9

// Hijri years scanned when matching Ramadan to a Gregorian year.
// 1420-1475 AH spans roughly 1999-2052 CE, well inside the Umm al-Qura
// table coverage.
const (
	searchStartYear = 1420
	searchEndYear   = 1475
)

// ResolutionError reports that no Hijri year's Ramadan overlaps the
// requested Gregorian year within the search span.
type ResolutionError struct {
	Year int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not determine Ramadan dates for year %d", e.Year)
}

// Range returns the inclusive Gregorian start and end dates of the
// Ramadan overlapping the given Gregorian year. Ramadan can begin in
// December and run into January, in which case start falls in year-1.
func Range(year int) (start, end time.Time, err error) {
	for hijriYear := int64(searchStartYear); hijriYear <= searchEndYear; hijriYear++ {
		first := hijri.UmmAlQuraDate{Year: hijriYear, Month: ramadanMonth, Day: 1}.ToGregorian()
		if !matchesYear(first, year) {
			continue
		}
		return first, monthEnd(hijriYear), nil
	}
	return time.Time{}, time.Time{}, &ResolutionError{Year: year}
}

// RangeNear resolves Ramadan for the given year, retrying the adjacent
// years when the requested one misses: the current year's Ramadan may
// already be over or not yet started.
func RangeNear(year int) (start, end time.Time, err error) {
	for _, candidate := range []int{year, year + 1, year - 1} {
		start, end, err = Range(candidate)
		if err == nil {
			return start, end, nil
		}
	}
	return time.Time{}, time.Time{}, err
}

// matchesYear reports whether a 1-Ramadan date belongs to the requested
// Gregorian year. A December start in the prior year still counts: that
// Ramadan runs into the requested year.
func matchesYear(first time.Time, year int) bool {
	if first.Year() == year {
		return true
	}
	return first.Year() == year-1 && first.Month() == time.December
}

// monthEnd converts 30 Ramadan to Gregorian, falling back to 29 when
// the lunar month has only 29 days. The round-trip check detects the
// short month: a nonexistent day 30 converts into 1 Shawwal instead.
func monthEnd(hijriYear int64) time.Time {
	day30 := hijri.UmmAlQuraDate{Year: hijriYear, Month: ramadanMonth, Day: 30}.ToGregorian()
	if back, err := hijri.CreateUmmAlQuraDate(day30); err == nil && back.Month == ramadanMonth && back.Day == 30 {
		return day30
	}
	return hijri.UmmAlQuraDate{Year: hijriYear, Month: ramadanMonth, Day: 29}.ToGregorian()
}
