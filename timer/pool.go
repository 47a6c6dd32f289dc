package timer

import (
	"github.com/panjf2000/ants/v2"
	"github.com/rs/xid"

	"github.com/fixkme/tywheel/mlog"
	xtime "github.com/fixkme/tywheel/time"
)

// Event is the copy of a timer's state handed to a pooled callback. The
// callback runs off the tick goroutine, so it never sees the *Timer itself.
type Event struct {
	ID        xid.ID
	Due       xtime.Time // 触发后的下一次到期时间
	Remaining int32
}

type poolFirer struct {
	pool *ants.Pool
	fn   func(Event)
}

// NewPoolFirer runs fn on pool each time the timer fires and keeps the timer
// scheduled; the fire budget alone decides when it retires. A rejected
// submission (pool closed or overloaded) drops that one run.
func NewPoolFirer(pool *ants.Pool, fn func(Event)) Firer {
	return &poolFirer{pool: pool, fn: fn}
}

func (p *poolFirer) Fire(t *Timer) bool {
	ev := Event{ID: t.id, Due: t.due, Remaining: t.remain}
	if err := p.pool.Submit(func() { p.fn(ev) }); err != nil {
		mlog.Warnf("timer %s pool submit failed: %v", t.id, err)
	}
	return true
}
