package util

import (
	"testing"
	"time"
)

func TestDayUTCNormalizesOffsets(t *testing.T) {
	late, _ := time.Parse(time.RFC3339, "2023-06-01T23:59:00Z")
	early, _ := time.Parse(time.RFC3339, "2023-06-01T00:01:00Z")
	next, _ := time.Parse(time.RFC3339, "2023-06-02T00:00:01Z")
	offset, _ := time.Parse(time.RFC3339, "2023-06-02T01:30:00+02:00")

	if DayUTC(late) != "2023-06-01" || DayUTC(early) != "2023-06-01" {
		t.Error("same UTC day must share one bucket")
	}
	if DayUTC(next) != "2023-06-02" {
		t.Errorf("DayUTC(next) = %q, want 2023-06-02", DayUTC(next))
	}
	if DayUTC(offset) != "2023-06-01" {
		t.Errorf("DayUTC(+02:00 offset) = %q, want 2023-06-01", DayUTC(offset))
	}
}

func TestHourUTC(t *testing.T) {
	at, _ := time.Parse(time.RFC3339, "2023-06-01T23:30:00+02:00")
	if HourUTC(at) != 21 {
		t.Errorf("HourUTC = %d, want 21", HourUTC(at))
	}
}
