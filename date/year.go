package date

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// FinancialYear is an Indian financial year, identified by the calendar year
// in which it starts. FinancialYear(2024) runs from 2024-04-01 to 2025-03-31.
type FinancialYear int

// FinancialYearOf returns the financial year containing d.
func FinancialYearOf(d Date) FinancialYear {
	if d.Month() >= time.April {
		return FinancialYear(d.Year())
	}
	return FinancialYear(d.Year() - 1)
}

// Start returns April 1 of the financial year.
func (fy FinancialYear) Start() Date { return New(int(fy), time.April, 1) }

// End returns March 31 of the following calendar year.
func (fy FinancialYear) End() Date { return New(int(fy)+1, time.March, 31) }

// Range returns the financial year as a date range, both ends included.
func (fy FinancialYear) Range() Range { return Range{From: fy.Start(), To: fy.End()} }

// Contains reports whether d falls in the financial year.
func (fy FinancialYear) Contains(d Date) bool { return FinancialYearOf(d) == fy }

// String returns the usual label, e.g. "FY2024-25".
func (fy FinancialYear) String() string {
	return fmt.Sprintf("FY%d-%02d", int(fy), (int(fy)+1)%100)
}

var financialYearRE = regexp.MustCompile(`^(?i)FY ?(\d{2}|\d{4})-(\d{2})$`)

// ParseFinancialYear parses labels like "FY2024-25", "FY24-25" or a plain
// starting year like "2024".
func ParseFinancialYear(s string) (FinancialYear, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return FinancialYear(y), nil
	}
	match := financialYearRE.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("invalid financial year %q want format %q", s, "FY2024-25")
	}
	start, _ := strconv.Atoi(match[1])
	end, _ := strconv.Atoi(match[2])
	if start < 100 {
		start += 2000
	}
	if (start+1)%100 != end {
		return 0, fmt.Errorf("invalid financial year %q: %d is not followed by %02d", s, start, end)
	}
	return FinancialYear(start), nil
}
