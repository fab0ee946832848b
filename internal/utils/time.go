package utils

import (
	"time"
)

// SameCalendarDay reports whether two instants fall on the same local calendar
// day. Search filters on this, not on a 24h range.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
