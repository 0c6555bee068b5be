package date

import (
	"testing"
	"time"
)

func TestFinancialYearOf(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		want FinancialYear
	}{
		{
			name: "March 31 closes the previous year",
			in:   New(2024, time.March, 31),
			want: 2023,
		},
		{
			name: "April 1 opens the year",
			in:   New(2024, time.April, 1),
			want: 2024,
		},
		{
			name: "January",
			in:   New(2025, time.January, 15),
			want: 2024,
		},
		{
			name: "December",
			in:   New(2024, time.December, 31),
			want: 2024,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FinancialYearOf(tc.in); got != tc.want {
				t.Errorf("FinancialYearOf(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFinancialYear_Range(t *testing.T) {
	fy := FinancialYear(2024)
	want := Range{From: New(2024, time.April, 1), To: New(2025, time.March, 31)}
	if got := fy.Range(); got != want {
		t.Errorf("Range() = %v, want %v", got, want)
	}
	if got, want := fy.String(), "FY2024-25"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !fy.Contains(New(2025, time.March, 31)) {
		t.Error("Contains(2025-03-31) = false, want true")
	}
	if fy.Contains(New(2025, time.April, 1)) {
		t.Error("Contains(2025-04-01) = true, want false")
	}
}

func TestParseFinancialYear(t *testing.T) {
	testCases := []struct {
		in      string
		want    FinancialYear
		wantErr bool
	}{
		{in: "FY2024-25", want: 2024},
		{in: "FY24-25", want: 2024},
		{in: "fy2099-00", want: 2099},
		{in: "2023", want: 2023},
		{in: "FY2024-26", wantErr: true},
		{in: "2024-25", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFinancialYear(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseFinancialYear(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseFinancialYear(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMonthEnds(t *testing.T) {
	dates := MonthEnds(2024)
	if len(dates) != 13 {
		t.Fatalf("len(MonthEnds(2024)) = %d, want 13", len(dates))
	}
	if got, want := dates[0], New(2024, time.January, 1); got != want {
		t.Errorf("first sample = %v, want %v", got, want)
	}
	if got, want := dates[2], New(2024, time.February, 29); got != want {
		t.Errorf("February sample = %v, want %v", got, want)
	}
	if got, want := dates[12], New(2024, time.December, 31); got != want {
		t.Errorf("last sample = %v, want %v", got, want)
	}
}

func TestCalendarYear_Days(t *testing.T) {
	n := 0
	for range CalendarYear(2024).Days() {
		n++
	}
	if n != 366 {
		t.Errorf("CalendarYear(2024) has %d days, want 366", n)
	}
}
