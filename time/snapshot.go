package time

import (
	"time"
)

// FormatLen is the number of bytes FormatTo needs.
const FormatLen = len(formatLayout)

const formatLayout = "2006-01-02[15:04:05]"

// Time is a wall clock snapshot with millisecond and microsecond resolution.
// The calendar breakdown is computed lazily and cached until the snapshot
// is moved by ComputeNow or AddDelay.
//
// Time is not safe for concurrent use: even the calendar getters write the cache.
type Time struct {
	ms    int64 // milliseconds from 1970
	us    int64
	tm    time.Time
	valid bool
}

// Now returns a snapshot of the current wall clock.
func Now() Time {
	var t Time
	t.ComputeNow()
	return t
}

// FromMs returns the snapshot for a millisecond timestamp.
func FromMs(ms int64) Time {
	return Time{ms: ms, us: ms * 1000}
}

// ComputeNow 重新采样系统时钟
func (t *Time) ComputeNow() {
	now := wallClock()
	t.ms = now.UnixMilli()
	t.us = now.UnixMicro()
	t.valid = false
}

// AddDelay moves the snapshot forward by delta milliseconds.
func (t *Time) AddDelay(delta int64) {
	t.ms += delta
	t.us += delta * 1000
	t.valid = false
}

func (t Time) Milliseconds() int64 { return t.ms }
func (t Time) Microseconds() int64 { return t.us }

func (t *Time) update() {
	if t.valid {
		return
	}
	t.tm = time.UnixMicro(t.us).In(location)
	t.valid = true
}

func (t *Time) Year() int {
	t.update()
	return t.tm.Year()
}

// Month 1-12
func (t *Time) Month() int {
	t.update()
	return int(t.tm.Month())
}

func (t *Time) Day() int {
	t.update()
	return t.tm.Day()
}

// Weekday 0是周天
func (t *Time) Weekday() int {
	t.update()
	return int(t.tm.Weekday())
}

func (t *Time) Hour() int {
	t.update()
	return t.tm.Hour()
}

func (t *Time) Minute() int {
	t.update()
	return t.tm.Minute()
}

func (t *Time) Second() int {
	t.update()
	return t.tm.Second()
}

// Std returns the snapshot as a time.Time in the configured location.
func (t *Time) Std() time.Time {
	t.update()
	return t.tm
}

// FormatTo renders YYYY-MM-DD[HH:MM:SS] into buf and reports the length written.
// A buffer shorter than FormatLen is left untouched and ok is false.
func (t *Time) FormatTo(buf []byte) (n int, ok bool) {
	if len(buf) < FormatLen {
		return 0, false
	}
	t.update()
	out := t.tm.AppendFormat(buf[:0], formatLayout)
	if len(out) > len(buf) {
		return 0, false
	}
	return len(out), true
}

func (t Time) String() string {
	var buf [FormatLen]byte
	n, _ := t.FormatTo(buf[:])
	return string(buf[:n])
}

// AtTime returns the next moment whose local wall clock reads hour:min:sec.
// A time earlier than now today rolls over to tomorrow, across month and year ends.
func AtTime(hour, min, sec int) Time {
	now := Now()
	year, mon, day := now.Year(), now.Month(), now.Day()

	// 如果时刻已经过了, 则换天; 月末换月, 12月换年
	h, m, s := now.Hour(), now.Minute(), now.Second()
	if hour < h || (hour == h && min < m) || (hour == h && min == m && sec < s) {
		year, mon, day = nextDay(year, mon, day)
	}

	at := time.Date(year, time.Month(mon), day, hour, min, sec, 0, location)
	return FromMs(at.UnixMilli())
}

func nextDay(year, mon, day int) (int, int, int) {
	if day < daysOfMonth(year, mon) {
		return year, mon, day + 1
	}
	if mon == 12 {
		return year + 1, 1, 1
	}
	return year, mon + 1, 1
}

var monthDays = [13]int{-1, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

func daysOfMonth(year, mon int) int {
	if mon == 2 && isLeapYear(year) {
		return 29
	}
	return monthDays[mon]
}
