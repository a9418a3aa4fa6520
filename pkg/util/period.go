package util

import "time"

// Period formats a month as YYYYMM, the unit the trade upstream is queried in.
func Period(t time.Time) string {
	return t.Format("200601")
}

// PeriodsBack returns n calendar periods walking backward from now, newest
// first. Month arithmetic goes through AddDate on the first of the month so
// end-of-month days cannot skip a period.
func PeriodsBack(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Period(first.AddDate(0, -i, 0)))
	}
	return out
}
