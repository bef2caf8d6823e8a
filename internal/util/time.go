package util

import "time"

const DayLayout = "2006-01-02"

// DayUTC buckets a timestamp into its UTC calendar date. Two instants on the
// same UTC day map to the same bucket regardless of their zone offset.
func DayUTC(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// HourUTC returns the UTC hour-of-day in [0,23].
func HourUTC(t time.Time) int {
	return t.UTC().Hour()
}
