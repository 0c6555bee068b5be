package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	if got, want := New(2024, time.March, 0), New(2024, time.February, 29); got != want {
		t.Errorf("New(2024, 3, 0) = %v, want %v", got, want)
	}
	if got, want := New(2023, time.December, 32), New(2024, time.January, 1); got != want {
		t.Errorf("New(2023, 12, 32) = %v, want %v", got, want)
	}
}

func TestDaysSince(t *testing.T) {
	testCases := []struct {
		name     string
		from, to Date
		want     int
	}{
		{"same day", New(2024, 1, 1), New(2024, 1, 1), 0},
		{"two plain years", New(2022, 1, 10), New(2024, 1, 10), 730},
		{"across month", New(2022, 1, 10), New(2024, 2, 1), 752},
		{"across leap day", New(2024, 2, 28), New(2024, 3, 1), 2},
		{"backward", New(2024, 3, 1), New(2024, 2, 28), -2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.to.DaysSince(tc.from); got != tc.want {
				t.Errorf("%v.DaysSince(%v) = %d, want %d", tc.to, tc.from, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, 5, 31), New(2024, 6, 1)
	if !a.Before(b) || a.After(b) || a.Compare(a) != 0 {
		t.Errorf("ordering of %v and %v is wrong", a, b)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := New(2025, time.July, 1); got != want {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
	if _, err := Parse("01/07/2025"); err == nil {
		t.Error("Parse(01/07/2025) expected an error")
	}
}

func TestJSON(t *testing.T) {
	d := New(2024, time.December, 31)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(b), `"2024-12-31"`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != d {
		t.Errorf("Unmarshal() = %v, want %v", back, d)
	}
}
