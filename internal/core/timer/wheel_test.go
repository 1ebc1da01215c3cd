package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWheel_FiresAtDeadline(t *testing.T) {
	w := NewWheel()
	var firedAt time.Duration = -1
	h := w.Schedule(2*time.Second, false, func() { firedAt = w.Now() })

	require.True(t, h.Valid())
	assert.True(t, w.IsActive(h))
	remaining, ok := w.Remaining(h)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, remaining)

	w.Advance(1500 * time.Millisecond)
	assert.Equal(t, time.Duration(-1), firedAt)
	remaining, _ = w.Remaining(h)
	assert.Equal(t, 500*time.Millisecond, remaining)

	w.Advance(time.Second)
	assert.Equal(t, 2*time.Second, firedAt, "callback observes its own deadline")
	assert.Equal(t, 2500*time.Millisecond, w.Now())
	assert.False(t, w.IsActive(h))
	assert.Zero(t, w.Pending())
}

func TestWheel_CancelledNeverFires(t *testing.T) {
	w := NewWheel()
	fired := false
	h := w.Schedule(time.Second, false, func() { fired = true })

	w.Cancel(h)
	w.Cancel(h)
	w.Cancel(InvalidHandle)
	w.Advance(5 * time.Second)

	assert.False(t, fired)
	assert.False(t, w.IsActive(h))
	_, ok := w.Remaining(h)
	assert.False(t, ok)
}

func TestWheel_TiesFireInScheduleOrder(t *testing.T) {
	w := NewWheel()
	var order []string
	w.Schedule(3*time.Second, false, func() { order = append(order, "first") })
	w.Advance(2 * time.Second)
	w.Schedule(time.Second, false, func() { order = append(order, "second") })

	w.Advance(time.Second)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestWheel_CallbackMayCancelSibling(t *testing.T) {
	w := NewWheel()
	var sibling Handle
	siblingFired := false
	w.Schedule(time.Second, false, func() { w.Cancel(sibling) })
	sibling = w.Schedule(time.Second, false, func() { siblingFired = true })

	w.Advance(time.Second)
	assert.False(t, siblingFired)
}

func TestWheel_NestedScheduleWithinSameAdvance(t *testing.T) {
	w := NewWheel()
	var firedAt []time.Duration
	w.Schedule(time.Second, false, func() {
		firedAt = append(firedAt, w.Now())
		w.Schedule(time.Second, false, func() { firedAt = append(firedAt, w.Now()) })
	})

	w.Advance(3 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, firedAt)
}

func TestWheel_Repeating(t *testing.T) {
	w := NewWheel()
	count := 0
	var h Handle
	h = w.Schedule(time.Second, true, func() {
		count++
		if count == 3 {
			w.Cancel(h)
		}
	})

	w.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
	assert.False(t, w.IsActive(h))
}

func TestWheel_EdgeCases(t *testing.T) {
	w := NewWheel()
	assert.Equal(t, InvalidHandle, w.Schedule(time.Second, false, nil))

	fired := false
	w.Schedule(-time.Second, false, func() { fired = true })
	w.Advance(0)
	assert.True(t, fired, "negative delays fire on the next advance")

	w.AdvanceTo(5 * time.Second)
	w.AdvanceTo(time.Second)
	assert.Equal(t, 5*time.Second, w.Now(), "time never moves backwards")
}
