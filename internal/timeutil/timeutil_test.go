package timeutil

import (
	"testing"
	"time"
)

func TestNextBoundary(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		at   time.Time
		want time.Time
	}{
		{base.Add(1 * time.Minute), base.Add(5 * time.Minute)},
		{base.Add(4*time.Minute + 59*time.Second), base.Add(5 * time.Minute)},
		{base.Add(5 * time.Minute), base.Add(10 * time.Minute)},
		{base.Add(7*time.Minute + 30*time.Second), base.Add(10 * time.Minute)},
	}
	for _, c := range cases {
		if got := NextBoundary(c.at); !got.Equal(c.want) {
			t.Fatalf("NextBoundary(%v) = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestFormatHHMM(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 30, 0, time.UTC)
	if got := FormatHHMM(at); got != "09:05" {
		t.Fatalf("FormatHHMM() = %q", got)
	}
}
