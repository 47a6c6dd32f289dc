package clock

import (
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/fixkme/tywheel/errs"
	"github.com/fixkme/tywheel/mlog"
	xtime "github.com/fixkme/tywheel/time"
	"github.com/fixkme/tywheel/timer"
)

const (
	defaultTickSpan      = time.Millisecond
	defaultTaskQueueSize = 10240
)

type Config struct {
	TickSpan      time.Duration // 采样周期, 每次采样会追赶所有已过去的 tick
	TaskQueueSize int
}

func DefaultConfig() Config {
	return Config{
		TickSpan:      defaultTickSpan,
		TaskQueueSize: defaultTaskQueueSize,
	}
}

// Clock drives a timer.Manager from its own goroutine. All wheel mutation
// happens on that goroutine; other goroutines reach the wheel through
// AsyncAdd, Exec and Post.
type Clock struct {
	mgr    *timer.Manager
	span   time.Duration
	taskch chan func()
	closed atomic.Bool
	done   chan struct{}

	base xtime.Time // 启动时的墙上时间
	mono time.Time  // 启动时的单调时钟读数
}

func NewClock(mgr *timer.Manager, cfg Config) *Clock {
	if cfg.TickSpan <= 0 {
		cfg.TickSpan = defaultTickSpan
	}
	if cfg.TaskQueueSize <= 0 {
		cfg.TaskQueueSize = defaultTaskQueueSize
	}
	return &Clock{
		mgr:    mgr,
		span:   cfg.TickSpan,
		taskch: make(chan func(), cfg.TaskQueueSize),
		done:   make(chan struct{}),
	}
}

func (c *Clock) Manager() *timer.Manager {
	return c.mgr
}

// Start runs the tick loop in a new goroutine until quit is closed.
func (c *Clock) Start(quit <-chan struct{}) {
	c.sync()
	go c.run(quit)
}

// Done is closed once the tick loop has exited.
func (c *Clock) Done() <-chan struct{} {
	return c.done
}

func (c *Clock) sync() {
	c.base = xtime.Now()
	c.mono = time.Now()
}

// now 墙上时间起点加单调时钟流逝, 系统时间回拨不会让 tick 倒退
func (c *Clock) now() xtime.Time {
	now := c.base
	now.AddDelay(time.Since(c.mono).Milliseconds())
	return now
}

func (c *Clock) run(quit <-chan struct{}) {
	defer close(c.done)
	tickTimer := time.NewTicker(c.span)
	defer tickTimer.Stop()
	mlog.Infof("clock started, span %v, cursor %s", c.span, c.mgr.LastCheck().String())
	for {
		select {
		case <-quit:
			c.closed.Store(true)
			mlog.Infof("clock stopped, %d timers linked", c.mgr.Len())
			return
		case <-tickTimer.C:
			c.mgr.Tick(c.now())
		case fn := <-c.taskch:
			c.exec(fn)
		}
	}
}

func (c *Clock) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("clock task panic: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// AsyncAdd hands t to the wheel; it is linked on the next tick.
func (c *Clock) AsyncAdd(t *timer.Timer) {
	c.mgr.AsyncAdd(t)
}

// Exec runs fn on the tick goroutine and waits for it to return.
func (c *Clock) Exec(fn func(m *timer.Manager)) error {
	if c.closed.Load() {
		return errs.ClockClosed
	}
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn(c.mgr)
	}
	select {
	case c.taskch <- task:
	default:
		return errs.TaskQueueFull.Printf("capacity %d", cap(c.taskch))
	}
	select {
	case <-finished:
		return nil
	case <-c.done:
		return errs.ClockClosed
	}
}

// Post queues fn for the tick goroutine without waiting.
func (c *Clock) Post(fn func(m *timer.Manager)) error {
	if c.closed.Load() {
		return errs.ClockClosed
	}
	select {
	case c.taskch <- func() { fn(c.mgr) }:
		return nil
	default:
		return errs.TaskQueueFull.Printf("capacity %d", cap(c.taskch))
	}
}

// ScheduleAt schedules t on the tick goroutine.
func (c *Clock) ScheduleAt(t *timer.Timer, at xtime.Time) (err error) {
	if execErr := c.Exec(func(m *timer.Manager) {
		err = m.ScheduleAt(t, at)
	}); execErr != nil {
		return execErr
	}
	return
}

// Kill cancels t on the tick goroutine.
func (c *Clock) Kill(t *timer.Timer) error {
	return c.Exec(func(m *timer.Manager) {
		m.Kill(t)
	})
}
