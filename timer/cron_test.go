package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fixkme/tywheel/errs"
	xtime "github.com/fixkme/tywheel/time"
)

func TestCronTimer(t *testing.T) {
	xtime.SetTimezone(0)
	defer xtime.SetLocation(nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	m := NewManager(xtime.FromMs(start))
	var got []int64
	tm, err := newCronTimer("*/10 * * * * *", FirerFunc(func(t *Timer) bool {
		got = append(got, m.LastCheck().Milliseconds()-1-start)
		return len(got) < 3
	}), start)
	if err != nil {
		t.Fatal(err)
	}
	if next, ok := NextRun(tm); !ok || next.Milliseconds() != start+10*xtime.SecMs {
		t.Fatalf("next run %d, %v", next.Milliseconds()-start, ok)
	}
	if err := m.AddTimer(tm); err != nil {
		t.Fatal(err)
	}

	m.Tick(xtime.FromMs(start + 60*xtime.SecMs))
	if diff := cmp.Diff([]int64{10000, 20000, 30000}, got); diff != "" {
		t.Fatalf("cron firings mismatch (-want +got):\n%s", diff)
	}
	if tm.Scheduled() {
		t.Fatal("cron timer should retire once its firer declines")
	}
}

func TestCronTimerHopsPastHorizon(t *testing.T) {
	xtime.SetTimezone(0)
	defer xtime.SetLocation(nil)

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	calls := 0
	tm, err := newCronTimer("@yearly", FirerFunc(func(*Timer) bool {
		calls++
		return true
	}), start)
	if err != nil {
		t.Fatal(err)
	}
	target := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if next, _ := NextRun(tm); next.Milliseconds() != target {
		t.Fatalf("next run %s", xtime.FormatMs(next.Milliseconds()))
	}
	if tm.DueTime().Milliseconds() != start+cronMaxHop {
		t.Fatal("first due should be one hop ahead")
	}

	m := NewManager(xtime.FromMs(start))
	if err := m.AddTimer(tm); err != nil {
		t.Fatalf("hop exceeded horizon: %v", err)
	}
	// 中途唤醒只跳不执行
	for i := 0; i < 20 && tm.DueTime().Milliseconds() < target; i++ {
		if !tm.OnFire() {
			t.Fatal("hop retired the timer")
		}
	}
	if calls != 0 || tm.DueTime().Milliseconds() != target {
		t.Fatalf("calls %d due %s", calls, xtime.FormatMs(tm.DueTime().Milliseconds()))
	}
	if !tm.OnFire() || calls != 1 {
		t.Fatalf("cron firer not invoked at target, calls %d", calls)
	}
	if next, _ := NextRun(tm); next.Milliseconds() != time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Fatalf("next run %s", xtime.FormatMs(next.Milliseconds()))
	}
}

func TestCronBadExpression(t *testing.T) {
	_, err := NewCronTimer("not a cron", nil)
	if !errors.Is(err, errs.BadCron) {
		t.Fatalf("want BadCron, got %v", err)
	}
	if _, ok := NextRun(NewTimer(1, 1, nil)); ok {
		t.Fatal("plain timer reported a cron schedule")
	}
}
