package clock

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/fixkme/tywheel/errs"
	xtime "github.com/fixkme/tywheel/time"
	"github.com/fixkme/tywheel/timer"
)

// ants 包初始化时创建的默认协程池常驻后台
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*poolCommon).purgeStaleWorkers"),
		goleak.IgnoreTopFunction("github.com/panjf2000/ants/v2.(*poolCommon).ticktock"),
	)
}

func newTestClock(t *testing.T) (*Clock, chan struct{}) {
	t.Helper()
	c := NewClock(timer.NewManager(xtime.Now()), Config{TickSpan: time.Millisecond, TaskQueueSize: 16})
	quit := make(chan struct{})
	c.Start(quit)
	t.Cleanup(func() {
		select {
		case <-quit:
		default:
			close(quit)
		}
		<-c.Done()
	})
	return c, quit
}

func TestAsyncAddFires(t *testing.T) {
	c, _ := newTestClock(t)
	fired := make(chan xtime.Time, 1)
	tm := timer.NewTimer(20, 1, timer.FirerFunc(func(t *timer.Timer) bool {
		fired <- xtime.Now()
		return false
	}))
	start := xtime.NowMs()
	c.AsyncAdd(tm)

	select {
	case at := <-fired:
		if at.Milliseconds() < start+15 {
			t.Fatalf("fired after %d ms, too early", at.Milliseconds()-start)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestExecScheduleAndKill(t *testing.T) {
	c, _ := newTestClock(t)
	fired := make(chan struct{}, 4)
	f := timer.FirerFunc(func(*timer.Timer) bool {
		fired <- struct{}{}
		return true
	})

	keep := timer.NewTimer(10, 2, f)
	drop := timer.NewTimer(10, 2, f)
	at := xtime.Now()
	at.AddDelay(200)
	if err := c.ScheduleAt(drop, at); err != nil {
		t.Fatal(err)
	}
	if err := c.Kill(drop); err != nil {
		t.Fatal(err)
	}
	if err := c.ScheduleAt(keep, xtime.Now()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(3 * time.Second):
			t.Fatalf("firing %d missing", i)
		}
	}
	var linked int
	if err := c.Exec(func(m *timer.Manager) { linked = m.Len() }); err != nil {
		t.Fatal(err)
	}
	if linked != 0 {
		t.Fatalf("linked %d after budget exhausted and kill", linked)
	}
	select {
	case <-fired:
		t.Fatal("killed timer fired")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestScheduleOverHorizon(t *testing.T) {
	c, _ := newTestClock(t)
	at := xtime.Now()
	at.AddDelay(timer.Horizon + xtime.DayMs)
	err := c.ScheduleAt(timer.NewTimer(0, 1, nil), at)
	if !errors.Is(err, errs.OverHorizon) {
		t.Fatalf("want OverHorizon, got %v", err)
	}
}

func TestClosed(t *testing.T) {
	c, quit := newTestClock(t)
	close(quit)
	<-c.Done()
	if err := c.Exec(func(*timer.Manager) {}); !errors.Is(err, errs.ClockClosed) {
		t.Fatalf("want ClockClosed, got %v", err)
	}
	if err := c.Post(func(*timer.Manager) {}); !errors.Is(err, errs.ClockClosed) {
		t.Fatalf("want ClockClosed, got %v", err)
	}
}

func TestTaskQueueFull(t *testing.T) {
	// 未启动的 Clock 不消费任务
	c := NewClock(timer.NewManager(xtime.Now()), Config{TaskQueueSize: 1})
	if err := c.Post(func(*timer.Manager) {}); err != nil {
		t.Fatal(err)
	}
	if err := c.Post(func(*timer.Manager) {}); !errors.Is(err, errs.TaskQueueFull) {
		t.Fatalf("want TaskQueueFull, got %v", err)
	}
}

func TestModule(t *testing.T) {
	mgr := timer.NewManager(xtime.Now())
	c := NewClock(mgr, DefaultConfig())
	if c.Name() != "clock" || c.Manager() != mgr {
		t.Fatal("unexpected module identity")
	}
	if err := c.OnInit(); err != nil {
		t.Fatal(err)
	}
	tm := timer.NewTimer(60000, 1, nil)
	if err := mgr.AddTimer(tm); err != nil {
		t.Fatal(err)
	}

	closeSig := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		c.Run(closeSig)
		close(exited)
	}()
	close(closeSig)
	<-exited
	c.OnDestroy()
	if tm.Scheduled() || mgr.Len() != 0 {
		t.Fatal("OnDestroy left timers linked")
	}
}

func TestTaskPanicRecovered(t *testing.T) {
	c, _ := newTestClock(t)
	if err := c.Exec(func(*timer.Manager) { panic("task") }); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := c.Exec(func(m *timer.Manager) { n = m.Len() }); err != nil {
		t.Fatalf("clock died after panic: %v", err)
	}
	if n != 0 {
		t.Fatalf("linked %d", n)
	}
}
