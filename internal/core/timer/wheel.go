package timer

import (
	"time"

	"github.com/zeusync/interactions/pkg/sequence"
)

// MinRepeatInterval bounds repeating callbacks so a zero delay cannot spin a
// single Advance forever.
const MinRepeatInterval = time.Millisecond

var _ Scheduler = (*Wheel)(nil)

type entry struct {
	handle    Handle
	deadline  time.Duration
	interval  time.Duration
	repeating bool
	seq       uint64
	cb        func()
	item      *sequence.Item[*entry]
}

// Wheel is a cooperative Scheduler. Time only moves when Advance or AdvanceTo
// is called, which makes it deterministic under test and lets a Runner drive
// it from wall-clock time in production.
//
// Callbacks due at the same instant fire in the order they were scheduled.
// While a callback runs, Now reports its deadline.
//
// Wheel is not safe for concurrent use.
type Wheel struct {
	now     time.Duration
	last    Handle
	seq     uint64
	queue   *sequence.PriorityQueue[*entry]
	entries map[Handle]*entry
}

func NewWheel() *Wheel {
	return &Wheel{
		queue: sequence.NewPriorityQueue(func(a, b *entry) bool {
			if a.deadline != b.deadline {
				return a.deadline < b.deadline
			}
			return a.seq < b.seq
		}),
		entries: make(map[Handle]*entry),
	}
}

func (w *Wheel) Now() time.Duration {
	return w.now
}

func (w *Wheel) Schedule(delay time.Duration, repeating bool, cb func()) Handle {
	if cb == nil {
		return InvalidHandle
	}
	if delay < 0 {
		delay = 0
	}
	w.last++
	e := &entry{
		handle:    w.last,
		deadline:  w.now + delay,
		interval:  max(delay, MinRepeatInterval),
		repeating: repeating,
		cb:        cb,
	}
	w.push(e)
	w.entries[e.handle] = e
	return e.handle
}

func (w *Wheel) Cancel(h Handle) {
	e, ok := w.entries[h]
	if !ok {
		return
	}
	delete(w.entries, h)
	w.queue.Remove(e.item)
}

func (w *Wheel) IsActive(h Handle) bool {
	_, ok := w.entries[h]
	return ok
}

func (w *Wheel) Remaining(h Handle) (time.Duration, bool) {
	e, ok := w.entries[h]
	if !ok {
		return 0, false
	}
	return e.deadline - w.now, true
}

// Pending returns the number of scheduled callbacks.
func (w *Wheel) Pending() int {
	return len(w.entries)
}

// Advance moves time forward by d, firing every callback that falls due on
// the way, including callbacks scheduled by other callbacks.
func (w *Wheel) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	w.AdvanceTo(w.now + d)
}

// AdvanceTo moves time forward to t. Moving backwards is a no-op.
func (w *Wheel) AdvanceTo(t time.Duration) {
	if t < w.now {
		return
	}
	for {
		head, ok := w.queue.Peek()
		if !ok || head.deadline > t {
			break
		}
		w.queue.Dequeue()
		w.now = head.deadline

		if head.repeating {
			head.deadline += head.interval
			w.push(head)
		} else {
			delete(w.entries, head.handle)
		}
		head.cb()
	}
	w.now = t
}

func (w *Wheel) push(e *entry) {
	w.seq++
	e.seq = w.seq
	e.item = w.queue.Enqueue(e)
}
