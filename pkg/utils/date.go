package utils

import (
	"fmt"
	"time"
)

// FormatRelativeDate 列表页 "x 分钟前" 风格的时间，超过一周显示日期
func FormatRelativeDate(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}

	d := now.Sub(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	default:
		return t.Format("02 Jan 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
