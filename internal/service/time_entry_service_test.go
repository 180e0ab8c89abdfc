package service

import (
	"testing"
	"time"
)

func TestDurationSeconds(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("open entry has nil duration", func(t *testing.T) {
		if d := durationSeconds(start, nil); d != nil {
			t.Fatalf("duration = %v; want nil", *d)
		}
	})

	cases := []struct {
		name string
		end  time.Time
		want int64
	}{
		{"whole hours", start.Add(2 * time.Hour), 7200},
		{"sub-second truncates down", start.Add(90*time.Second + 900*time.Millisecond), 90},
		{"zero length", start, 0},
	}

	for _, tc := range cases {
		end := tc.end
		d := durationSeconds(start, &end)
		if d == nil || *d != tc.want {
			t.Fatalf("%s: duration = %v; want %d", tc.name, d, tc.want)
		}
	}
}
