package timer

import (
	"github.com/robfig/cron/v3"

	"github.com/fixkme/tywheel/errs"
	xtime "github.com/fixkme/tywheel/time"
)

// 秒字段可选: "*/5 * * * * *" 或 "0 9 * * 1-5" 或 "@daily"
var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// 单次跳跃上限, 远于此的执行时间分段逼近, 保证不超出时间轮范围
const cronMaxHop = Horizon / 2

type cronFirer struct {
	schedule cron.Schedule
	next     int64 // 下次真正执行的毫秒时间戳, -1 表示不再执行
	inner    Firer
}

// NewCronTimer creates a timer whose due times follow a cron expression,
// evaluated in the location configured in the time package. The inner firer
// runs at each scheduled time; returning false from it retires the timer.
func NewCronTimer(expr string, f Firer) (*Timer, error) {
	return newCronTimer(expr, f, xtime.NowMs())
}

func newCronTimer(expr string, f Firer, fromMs int64) (*Timer, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errs.BadCron.Printf("%q", expr).Cause(err)
	}
	cf := &cronFirer{schedule: sched, inner: f}
	t := NewTimer(0, Infinite, cf)
	cf.plan(t, fromMs)
	return t, nil
}

// NextRun returns the next time the cron timer's firer will run, or false when
// t is not a cron timer or its schedule is exhausted.
func NextRun(t *Timer) (xtime.Time, bool) {
	cf, ok := t.firer.(*cronFirer)
	if !ok || cf.next < 0 {
		return xtime.Time{}, false
	}
	return xtime.FromMs(cf.next), true
}

func (cf *cronFirer) plan(t *Timer, fromMs int64) {
	next := cf.schedule.Next(xtime.Ms2Time(fromMs))
	if next.IsZero() {
		cf.next = -1
		return
	}
	cf.next = next.UnixMilli()
	cf.hop(t, fromMs)
}

func (cf *cronFirer) hop(t *Timer, fromMs int64) {
	due := cf.next
	if due-fromMs > cronMaxHop {
		due = fromMs + cronMaxHop
	}
	t.SetDueTime(xtime.FromMs(due))
}

func (cf *cronFirer) Fire(t *Timer) bool {
	if cf.next < 0 {
		return false
	}
	now := t.due.Milliseconds()
	if now < cf.next {
		// 中途唤醒, 继续跳
		cf.hop(t, now)
		return true
	}
	if cf.inner == nil || !cf.inner.Fire(t) {
		return false
	}
	cf.plan(t, now)
	return cf.next >= 0
}
