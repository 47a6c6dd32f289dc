package clock

import (
	"sync"

	"github.com/fixkme/tywheel/timer"
)

var (
	builtinClock *Clock
	once         sync.Once
)

// Start drives timer.Instance() with the default configuration. Later calls
// return the already running clock.
func Start(quit <-chan struct{}) *Clock {
	once.Do(func() {
		builtinClock = NewClock(timer.Instance(), DefaultConfig())
		builtinClock.Start(quit)
	})
	return builtinClock
}

// AsyncAdd hands t to the builtin wheel from any goroutine.
func AsyncAdd(t *timer.Timer) {
	timer.Instance().AsyncAdd(t)
}
