package util

import (
	"ShareLens/internal/pkg/consts"
	"time"
)

// GetMidnight 当天零点（UTC）
func GetMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayRange 某天的 [start, end)
func DayRange(t time.Time) (time.Time, time.Time) {
	start := GetMidnight(t)
	return start, start.AddDate(0, 0, 1)
}

// FormatDate YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(consts.DateLayout)
}

// ParseDate 解析 YYYY-MM-DD 为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(consts.DateLayout, s, time.UTC)
}
