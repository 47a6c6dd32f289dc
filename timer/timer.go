package timer

import (
	"github.com/rs/xid"

	xtime "github.com/fixkme/tywheel/time"
)

// Infinite 无限次触发
const Infinite int32 = -1

// Firer is the capability a timer invokes when it comes due.
// Returning false retires the timer; returning true lets it run again
// after its interval while it still has budget.
type Firer interface {
	Fire(t *Timer) bool
}

// FirerFunc adapts a plain function to Firer.
type FirerFunc func(t *Timer) bool

func (f FirerFunc) Fire(t *Timer) bool { return f(t) }

// Timer 可调度单元, 由创建者持有; Manager 只维护 prev/next 链接, 不管理生命周期.
// prev == nil 当且仅当未被调度.
type Timer struct {
	prev, next *Timer // 双向链表, 桶头为哨兵
	id         xid.ID
	due        xtime.Time // 到期时间
	interval   uint32     // 间隔 ticks(毫秒)
	remain     int32      // 剩余触发次数, 负数表示无限
	firer      Firer
}

// NewTimer creates a timer due interval ticks from now that fires count times
// (Infinite for no limit). A nil firer does nothing and retires the timer.
func NewTimer(interval uint32, count int32, f Firer) *Timer {
	t := &Timer{
		id:       xid.New(),
		due:      xtime.Now(),
		interval: interval,
		remain:   count,
		firer:    f,
	}
	t.due.AddDelay(int64(interval))
	return t
}

// OnFire consumes one unit of budget, advances the due time by the interval and
// invokes the firer. It reports whether the timer should be scheduled again.
func (t *Timer) OnFire() bool {
	if t.remain == 0 {
		return false
	}
	if t.remain > 0 {
		t.remain--
	}
	t.due.AddDelay(int64(t.interval))
	keep := t.fire()
	if t.remain == 0 {
		return false
	}
	return keep
}

func (t *Timer) fire() bool {
	if t.firer == nil {
		return false
	}
	return t.firer.Fire(t)
}

func (t *Timer) ID() xid.ID { return t.id }

func (t *Timer) Interval() uint32 { return t.interval }

func (t *Timer) SetInterval(interval uint32) { t.interval = interval }

func (t *Timer) Remaining() int32 { return t.remain }

// SetRemaining resets the fire budget; negative means unlimited.
func (t *Timer) SetRemaining(n int32) { t.remain = n }

func (t *Timer) DueTime() xtime.Time { return t.due }

// SetDueTime moves the due time. A scheduled timer must be re-added to take effect.
func (t *Timer) SetDueTime(at xtime.Time) { t.due = at }

// Scheduled reports whether the timer is linked into a wheel.
func (t *Timer) Scheduled() bool { return t.prev != nil }
