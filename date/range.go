package date

import (
	"iter"
	"time"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// CalendarYear returns the range from January 1 to December 31 of year.
func CalendarYear(year int) Range {
	return Range{From: New(year, time.January, 1), To: New(year, time.December, 31)}
}

// MonthEnds returns the observation points of a calendar year used for
// month-end sampling: January 1, then the last day of every month.
// December 31 is the last element.
func MonthEnds(year int) []Date {
	dates := make([]Date, 0, 13)
	dates = append(dates, New(year, time.January, 1))
	for m := time.January; m <= time.December; m++ {
		dates = append(dates, New(year, m, 1).EndOfMonth())
	}
	return dates
}
