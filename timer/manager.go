package timer

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/fixkme/tywheel/errs"
	"github.com/fixkme/tywheel/metrics"
	"github.com/fixkme/tywheel/mlog"
	xtime "github.com/fixkme/tywheel/time"
)

const (
	list1Bits = 8
	listBits  = 6
	list1Size = 1 << list1Bits // 256 ticks
	listSize  = 1 << listBits
	list1Mask = list1Size - 1
	listMask  = listSize - 1
	levels    = 5
)

// Horizon is the number of ticks ahead a timer may be due (2^32, about 49 days
// at one tick per millisecond).
const Horizon int64 = 1 << (list1Bits + (levels-1)*listBits)

// Manager is a five level hierarchical timing wheel with one millisecond ticks.
//
// AddTimer, ScheduleAt, Kill, Tick and Close must be called from a single
// goroutine, the one driving Tick. AsyncAdd is the only method safe for use
// from other goroutines.
type Manager struct {
	name      string
	lastCheck xtime.Time // 下一个待处理的 tick

	list1  [list1Size]Timer            // 256ms
	lists  [levels - 1][listSize]Timer // 16s, 17min, 18h, 49d
	linked int

	mu      sync.Mutex // protect pending
	pending *queue.Queue
	count   atomic.Int32 // pending 长度

	metrics *metrics.Registry
}

// NewManager creates a wheel whose cursor starts at start.
func NewManager(start xtime.Time) *Manager {
	return &Manager{
		name:      "default",
		lastCheck: xtime.FromMs(start.Milliseconds()),
		pending:   queue.New(),
	}
}

// EnableMetrics reports wheel activity to r under the given wheel name.
func (m *Manager) EnableMetrics(r *metrics.Registry, name string) {
	m.metrics = r
	if name != "" {
		m.name = name
	}
}

// ScheduleAt sets the due time of t and adds it to the wheel.
func (m *Manager) ScheduleAt(t *Timer, at xtime.Time) error {
	if t == nil {
		return nil
	}
	t.due = at
	return m.AddTimer(t)
}

// AddTimer links t into the bucket matching its due time, first unlinking it
// from wherever it currently is. A timer already due fires on the next tick.
// Timers due Horizon or more ticks ahead are rejected and left unscheduled.
func (m *Manager) AddTimer(t *Timer) error {
	if t == nil {
		return nil
	}
	if err := m.add(t); err != nil {
		return err
	}
	m.metrics.Scheduled(m.name)
	return nil
}

func (m *Manager) add(t *Timer) error {
	if unlink(t) {
		m.linked--
	}
	due := t.due.Milliseconds()
	diff := due - m.lastCheck.Milliseconds()
	if diff >= Horizon {
		m.metrics.Rejected(m.name)
		return errs.OverHorizon.Printf("timer %s due in %d ticks", t.id, diff)
	}
	pushFront(m.bucket(due, diff), t)
	m.linked++
	return nil
}

func (m *Manager) bucket(due, diff int64) *Timer {
	switch {
	case diff < 0:
		return &m.list1[m.lastCheck.Milliseconds()&list1Mask]
	case diff < list1Size:
		return &m.list1[due&list1Mask]
	}
	lv, shift := 0, list1Bits
	for lv < levels-2 && diff >= 1<<(shift+listBits) {
		lv++
		shift += listBits
	}
	return &m.lists[lv][(due>>shift)&listMask]
}

// AsyncAdd hands t over to the tick goroutine; it is added on the next Tick.
// Safe for concurrent use.
func (m *Manager) AsyncAdd(t *Timer) {
	if t == nil {
		return
	}
	m.mu.Lock()
	m.pending.Add(t)
	m.count.Add(1)
	m.mu.Unlock()
}

// Kill unschedules t. Killing an unscheduled timer is a no-op.
func (m *Manager) Kill(t *Timer) {
	if t == nil {
		return
	}
	if unlink(t) {
		m.linked--
		m.metrics.Killed(m.name)
	}
}

// Tick processes every tick from the cursor up to and including now, firing
// the timers due on each. Timers sharing a tick fire most recently added first.
// now must never go backwards between calls. Tick reports whether at least
// one tick was processed.
func (m *Manager) Tick(now xtime.Time) bool {
	m.drainPending()
	// 只在 tick 协程上更新, 生产者不写 gauge
	m.metrics.SetPending(m.name, m.Pending())

	end := now.Milliseconds()
	if m.lastCheck.Milliseconds() > end {
		return false
	}

	ticks := 0
	for m.lastCheck.Milliseconds() <= end {
		cur := m.lastCheck.Milliseconds()
		index := cur & list1Mask
		if index == 0 {
			m.cascade(cur)
		}
		m.lastCheck.AddDelay(1)
		m.fire(&m.list1[index])
		ticks++
	}

	m.metrics.Ticked(m.name, ticks)
	m.metrics.SetLinked(m.name, m.linked)
	return true
}

// drainPending 尝试拿锁, 拿不到就等下一个 tick, 不阻塞 tick 协程
func (m *Manager) drainPending() {
	if m.count.Load() == 0 || !m.mu.TryLock() {
		return
	}
	q := m.pending
	m.pending = queue.New()
	m.count.Store(0)
	m.mu.Unlock()

	for q.Length() > 0 {
		t := q.Remove().(*Timer)
		if err := m.AddTimer(t); err != nil {
			mlog.Warnf("async add timer %s failed: %v", t.id, err)
		}
	}
}

// cascade 第一层回绕时把上层当前槽的定时器重新分配到下层;
// 某层下标也回绕到 0 时继续处理更上一层
func (m *Manager) cascade(cur int64) {
	for lv := 0; lv < levels-1; lv++ {
		index := (cur >> (list1Bits + lv*listBits)) & listMask
		n := 0
		for t := detach(&m.lists[lv][index]); t != nil; {
			next := t.next
			t.prev, t.next = nil, nil
			m.linked--
			if err := m.add(t); err != nil {
				mlog.Errorf("cascade timer %s failed: %v", t.id, err)
			}
			t = next
			n++
		}
		if n > 0 {
			mlog.Debugf("wheel %s cascade level %d slot %d: %d timers", m.name, lv+2, index, n)
			m.metrics.Cascaded(m.name, lv+2, n)
		}
		if index != 0 {
			break
		}
	}
}

// fire 先把到期槽整体挪到临时链表, 触发时重新加入的定时器不会在本 tick 再次被处理
func (m *Manager) fire(head *Timer) {
	if head.next == nil {
		return
	}
	var firing Timer
	moveAll(head, &firing)
	for firing.next != nil {
		t := firing.next
		unlink(t)
		m.linked--
		m.metrics.Fired(m.name)
		if !t.OnFire() {
			continue
		}
		if err := m.add(t); err != nil {
			mlog.Warnf("reschedule timer %s failed, retired: %v", t.id, err)
		}
	}
}

// Close unlinks every scheduled timer. The timers themselves stay usable.
func (m *Manager) Close() {
	for i := range m.list1 {
		m.unlinkAll(&m.list1[i])
	}
	for lv := range m.lists {
		for i := range m.lists[lv] {
			m.unlinkAll(&m.lists[lv][i])
		}
	}
	m.metrics.SetLinked(m.name, m.linked)
}

func (m *Manager) unlinkAll(head *Timer) {
	for head.next != nil {
		unlink(head.next)
		m.linked--
	}
}

func (m *Manager) Name() string { return m.name }

// Len returns the number of timers linked into the wheel.
func (m *Manager) Len() int { return m.linked }

// Pending returns the number of AsyncAdd hand-offs not yet drained.
func (m *Manager) Pending() int { return int(m.count.Load()) }

// LastCheck returns the next tick the wheel will process.
func (m *Manager) LastCheck() xtime.Time { return m.lastCheck }
