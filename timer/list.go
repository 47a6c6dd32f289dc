package timer

// 桶链表: 桶头是不携带数据的哨兵 Timer, 链表以 nil 结尾.
// 哨兵的 prev 永远是 nil, 挂在链上的 Timer 的 prev 永远非 nil.

// pushFront 头插, O(1)
func pushFront(head, t *Timer) {
	if head.prev != nil {
		panic("timer: bucket head has a prev link")
	}
	t.prev = head
	t.next = head.next
	if head.next != nil {
		head.next.prev = t
	}
	head.next = t
}

// unlink 从所在链表摘除, 未调度时返回 false
func unlink(t *Timer) bool {
	if t.prev == nil {
		return false
	}
	t.prev.next = t.next
	if t.next != nil {
		t.next.prev = t.prev
	}
	t.prev = nil
	t.next = nil
	return true
}

// moveAll 把 from 上的整条链表转挂到 to (to 必须为空), 保持原有顺序
func moveAll(from, to *Timer) {
	first := from.next
	if first == nil {
		return
	}
	from.next = nil
	first.prev = to
	to.next = first
}

// detach 摘下整条链表并返回首节点, 节点之间的 next 仍然保留
func detach(head *Timer) *Timer {
	first := head.next
	head.next = nil
	return first
}
