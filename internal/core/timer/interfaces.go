package timer

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued and
// is always inactive.
type Handle uint64

const InvalidHandle Handle = 0

func (h Handle) Valid() bool { return h != InvalidHandle }

// Scheduler schedules delayed callbacks on the single logical thread that
// drives the interaction core. Callbacks never run concurrently with each
// other or with the code advancing the scheduler.
type Scheduler interface {
	// Schedule registers cb to run after delay. Repeating callbacks re-arm with
	// the same delay until cancelled.
	Schedule(delay time.Duration, repeating bool, cb func()) Handle
	// Cancel drops a scheduled callback. A cancelled callback never runs.
	// Cancelling an unknown or already fired handle is a no-op.
	Cancel(h Handle)
	// IsActive reports whether h is still waiting to fire.
	IsActive(h Handle) bool
	// Remaining returns the time left before h fires.
	Remaining(h Handle) (time.Duration, bool)
	// Now returns the scheduler's current simulation time.
	Now() time.Duration
}
