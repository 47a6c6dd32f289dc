package time

import (
	"fmt"
	"time"
)

const (
	SecMs  = 1000
	MinMs  = 60 * SecMs
	HourMs = 60 * MinMs
	DayMs  = 24 * HourMs
)

var (
	timeOffset = time.Duration(0) // 时间偏移, 测试或调试时用来拨快时钟
	location   = time.Local       // 日历分解使用的时区
)

// SetTimezone 设置时区, offsetSeconds 为与零时区的偏移秒数
func SetTimezone(offsetSeconds int64) {
	name := fmt.Sprintf("UTC%+d", offsetSeconds/3600)
	location = time.FixedZone(name, int(offsetSeconds))
}

// SetLocation 直接指定时区, nil 恢复为本地时区
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	location = loc
}

func GetLocation() *time.Location {
	return location
}

// SetTimeOffset 设置时间偏移量
func SetTimeOffset(newOffset time.Duration) {
	timeOffset = newOffset
}

// GetTimeOffset 获取时间偏移量
func GetTimeOffset() time.Duration {
	return timeOffset
}

// wallClock 读取系统时钟(加上偏移)
func wallClock() time.Time {
	now := time.Now()
	if timeOffset != 0 {
		now = now.Add(timeOffset)
	}
	return now
}

// NowMs 获取当前时间的毫秒时间戳
func NowMs() int64 {
	return wallClock().UnixMilli()
}

// Ms2Time ms时间戳转化为时间
func Ms2Time(ms int64) time.Time {
	return time.UnixMilli(ms).In(location)
}

// FormatSecond 秒时间戳转为 2006-01-02 15:04:05
func FormatSecond(sec int64) string {
	return time.Unix(sec, 0).In(location).Format(time.DateTime)
}

// FormatMs 毫秒时间戳转为 2006-01-02 15:04:05.000
func FormatMs(ms int64) string {
	return Ms2Time(ms).Format("2006-01-02 15:04:05.000")
}

// FormatUs 微秒时间戳转为 2006-01-02 15:04:05.000000
func FormatUs(us int64) string {
	return time.UnixMicro(us).In(location).Format("2006-01-02 15:04:05.000000")
}

// zoneOffsetMs 给定时刻所在时区相对零时区的毫秒偏移
func zoneOffsetMs(ms int64) int64 {
	_, off := time.UnixMilli(ms).In(location).Zone()
	return int64(off) * SecMs
}

// GetWeekday 获取星期几, 0是周天
func GetWeekday(nowMs int64) int64 {
	d := floorDiv(nowMs+zoneOffsetMs(nowMs), DayMs)
	// 1970-01-01 是周四
	return ((d+4)%7 + 7) % 7
}

// IsNewDayReset 是否跨过了每日 resetHour 点, before/after 为毫秒时间戳
func IsNewDayReset(before, after int64, resetHour int64) bool {
	before += zoneOffsetMs(before) - resetHour*HourMs
	after += zoneOffsetMs(after) - resetHour*HourMs
	return floorDiv(before, DayMs) != floorDiv(after, DayMs)
}

// GetNextDayResetTime 获取下次 resetHour 点的毫秒时间戳
func GetNextDayResetTime(nowMs int64, resetHour int64) int64 {
	local := nowMs + zoneOffsetMs(nowMs)
	thisDayResetTime := nowMs - (local - floorDiv(local, DayMs)*DayMs) + resetHour*HourMs
	if thisDayResetTime > nowMs {
		return thisDayResetTime
	}
	return thisDayResetTime + DayMs
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
