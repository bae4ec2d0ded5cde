package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/anushka-2626/Seat-booking-system/internal/model"
)

// ── 节假日 ICS 解析 ──────────────────────────────────────────
//
// 将 iCalendar (RFC 5545) 日历中的事件转为节假日列表：
//   - 全天事件（VALUE=DATE）按 DTSTART..DTEND（不含）逐日展开
//   - 带时间的事件只取 DTSTART 所在日期
//   - RRULE 仅支持 FREQ=YEARLY（固定日期节日），展开到 horizon 为止
//   - 同一日期出现多次时保留第一个名称
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 2 * 1024 * 1024 // 2MB
	icsFetchTimeout = 30 * time.Second
	icsMaxSpanDays  = 31
)

// FetchICSContent 从订阅地址获取 ICS 内容
func FetchICSContent(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHolidayICSFetch, err)
	}
	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHolidayICSFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d", ErrHolidayICSFetch, resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseHolidayICS 解析 ICS 内容为节假日（均视为闭馆日）
func ParseHolidayICS(reader io.Reader, loc *time.Location, horizon time.Time) ([]model.Holiday, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHolidayICSInvalid, err)
	}

	seen := make(map[string]bool)
	var result []model.Holiday
	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}
		name := strings.TrimSpace(summary.Value)

		for _, d := range eventDates(evt, loc, horizon) {
			key := d.Format("2006-01-02")
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, model.Holiday{
				HolidayDate: d,
				Name:        name,
				IsClosed:    true,
			})
		}
	}
	return result, nil
}

// eventDates 计算单个事件覆盖的日历日期
func eventDates(evt *ics.VEvent, loc *time.Location, horizon time.Time) []time.Time {
	start, allDay, err := parseICSDate(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return nil
	}
	span := 1
	if allDay {
		if end, _, err := parseICSDate(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
			days := int(end.Sub(start).Hours() / 24)
			if days > 1 {
				span = days
			}
		}
	}
	if span > icsMaxSpanDays {
		span = icsMaxSpanDays
	}

	occurrences := []time.Time{start}
	if prop := evt.GetProperty(ics.ComponentPropertyRrule); prop != nil {
		occurrences = expandYearly(start, prop.Value, horizon)
	}

	var dates []time.Time
	for _, occ := range occurrences {
		for i := 0; i < span; i++ {
			dates = append(dates, occ.AddDate(0, 0, i))
		}
	}
	return dates
}

// expandYearly 展开 FREQ=YEARLY 的重复规则；其他频率只保留首次
func expandYearly(start time.Time, rrule string, horizon time.Time) []time.Time {
	var (
		freq  string
		count int
		until time.Time
	)
	for _, part := range strings.Split(rrule, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			freq = strings.ToUpper(kv[1])
		case "COUNT":
			fmt.Sscanf(kv[1], "%d", &count)
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, _ = time.Parse("20060102", kv[1])
			}
			until = t
		}
	}
	if freq != "YEARLY" {
		return []time.Time{start}
	}

	var out []time.Time
	for cur, n := start, 0; !cur.After(horizon); cur, n = cur.AddDate(1, 0, 0), n+1 {
		if count > 0 && n >= count {
			break
		}
		if !until.IsZero() && cur.After(until) {
			break
		}
		out = append(out, cur)
	}
	return out
}

// parseICSDate 解析日期属性，返回所在日历日期及是否为全天格式
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, bool, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	if t, err := time.ParseInLocation("20060102", val, loc); err == nil {
		return t, true, nil
	}

	tzLoc := loc
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			if l, err := time.LoadLocation(v[0]); err == nil {
				tzLoc = l
			}
		}
	}

	var t time.Time
	var err error
	if strings.HasSuffix(val, "Z") {
		t, err = time.Parse("20060102T150405Z", val)
	} else {
		t, err = time.ParseInLocation("20060102T150405", val, tzLoc)
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("无法解析日期: %s", val)
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), false, nil
}
