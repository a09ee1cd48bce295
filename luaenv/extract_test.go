package luaenv

import "testing"

func TestDateToTime(t *testing.T) {
	// Day 0 is the epoch itself; day 1 is Jan 2 1970.
	got := dateToTime(0)
	if got.Year() != 1970 || got.Month() != 1 || got.Day() != 1 {
		t.Errorf("dateToTime(0) = %v, want 1970-01-01", got)
	}
	got = dateToTime(365)
	if got.Year() != 1971 || got.Month() != 1 || got.Day() != 1 {
		t.Errorf("dateToTime(365) = %v, want 1971-01-01", got)
	}
}

func TestTimestampToTime(t *testing.T) {
	oneHour := int64(60 * 60 * 1_000_000)
	got := timestampToTime(oneHour)
	if got.Hour() != 1 {
		t.Errorf("timestampToTime(1h in micros).Hour() = %d, want 1", got.Hour())
	}
}

func TestDatePart(t *testing.T) {
	d := dateToTime(0).AddDate(5, 6, 14) // 1975-07-15
	tests := []struct {
		part string
		want int
	}{
		{"YEAR", 1975},
		{"MONTH", 7},
		{"DAY", 15},
		{"UNKNOWN", 0},
	}
	for _, tt := range tests {
		if got := datePart(d, tt.part); got != tt.want {
			t.Errorf("datePart(%v, %q) = %d, want %d", d, tt.part, got, tt.want)
		}
	}
}
