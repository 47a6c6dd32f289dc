package timer

import (
	"sync"

	xtime "github.com/fixkme/tywheel/time"
)

var (
	builtinManager *Manager
	once           sync.Once
)

// Instance returns the process-wide wheel, created on first use with its
// cursor at the current time. Prefer passing an explicit *Manager around;
// the builtin exists for code that has no natural owner to inject one.
func Instance() *Manager {
	once.Do(func() {
		builtinManager = NewManager(xtime.Now())
		builtinManager.name = "builtin"
	})
	return builtinManager
}
