package rules

import "time"

const dateLayout = "2006-01-02"

// IsBookingWindowOpen 当前小时不早于 booking_open_hour 时开放订座
// now 应已换算到办公室时区
func IsBookingWindowOpen(s Settings, now time.Time) bool {
	return now.Hour() >= s.BookingOpenHour
}

// CalendarDate 截断到 t 所在时区的日历日期（00:00）
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey 日历日期的字符串形式 YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDateKey 解析 YYYY-MM-DD
func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}
