package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_AdvancesWheelFromWallClock(t *testing.T) {
	w := NewWheel()
	fired := make(chan time.Duration, 1)
	w.Schedule(10*time.Millisecond, false, func() { fired <- w.Now() })

	r := NewRunner(w, 2*time.Millisecond, nil)
	ticks := 0
	r.OnTick(func(time.Duration) { ticks++ })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	select {
	case at := <-fired:
		assert.Equal(t, 10*time.Millisecond, at)
	default:
		t.Fatal("timer did not fire")
	}
	assert.Positive(t, ticks)
	assert.GreaterOrEqual(t, w.Now(), 10*time.Millisecond)
}
