package pricing

import "time"

// AddMonths moves t by n calendar months, clamping the day to the length of the
// target month: Jan 31 + 1 month is Feb 28 (or 29), not Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
