package services

import (
	"fmt"
	"time"
)

const baseDateLayout = "20060102"

// resolveBaseDateTime fills in the upstream publication date/time when the
// caller left them unspecified. Defaults are independent: an explicit time
// with no date still gets today's date.
func resolveBaseDateTime(baseDate, baseTime string, now time.Time, defaultTime func(time.Time) string) (string, string) {
	if baseDate == "" {
		baseDate = now.Format(baseDateLayout)
	}
	if baseTime == "" {
		baseTime = defaultTime(now)
	}
	return baseDate, baseTime
}

// nowcastBaseTime: the nowcast is published on the hour.
func nowcastBaseTime(now time.Time) string {
	return fmt.Sprintf("%02d00", now.Hour())
}

// ultraForecastBaseTime: the ultra-short-term forecast is published on the
// half-hour.
func ultraForecastBaseTime(now time.Time) string {
	return fmt.Sprintf("%02d30", now.Hour())
}

// vilageBaseTime picks the most recent of the eight daily publication slots.
// Before 02:00 it returns the previous day's 2300 slot while the base date
// stays today's; that mismatch is long-standing behavior callers rely on and
// is pinned by a test.
func vilageBaseTime(now time.Time) string {
	hour := now.Hour()
	switch {
	case hour < 2:
		return "2300"
	case hour < 5:
		return "0200"
	case hour < 8:
		return "0500"
	case hour < 11:
		return "0800"
	case hour < 14:
		return "1100"
	case hour < 17:
		return "1400"
	case hour < 20:
		return "1700"
	case hour < 23:
		return "2000"
	default:
		return "2300"
	}
}
