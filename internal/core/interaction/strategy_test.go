package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mashProfile() Config {
	c := profile(KindMash, 3*time.Second)
	c.KeystrokeThreshold = time.Second
	c.MinMashAmount = 5
	return c
}

func TestMash_EnoughPressesCompleteAtPeriod(t *testing.T) {
	w := newWorld(t)
	it := w.interactable(mashProfile())
	ir, player := w.interactor(InteractorPassive)
	rec := record(t, it.Events(), interactionEvents...)
	it.OnOverlapBegin(player)

	for n := range 5 {
		ir.PressKey()
		ir.ReleaseKey()
		if n < 4 {
			w.wheel.Advance(500 * time.Millisecond)
		}
	}
	assert.Equal(t, []string{EventInteractionStarted}, rec.types(), "releases between presses are swallowed")

	w.wheel.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, rec.count(EventInteractionCompleted))

	w.wheel.Advance(time.Millisecond)
	require.Equal(t, 1, rec.count(EventInteractionCompleted))
	completed, _ := rec.last(EventInteractionCompleted)
	assert.Equal(t, 3*time.Second, completed.At())
	assert.Equal(t, 5, completed.Data().(InteractionPayload).Presses)
	assert.Equal(t, 0, rec.count(EventInteractionFailed))
	assert.Equal(t, StateFinished, it.State())
	assert.Equal(t, 0, w.wheel.Pending())
}

func TestMash_SilenceFailsAtKeystrokeTimeout(t *testing.T) {
	w := newWorld(t)
	it := w.interactable(mashProfile())
	ir, player := w.interactor(InteractorPassive)
	rec := record(t, it.Events(), interactionEvents...)
	it.OnOverlapBegin(player)

	for n := range 4 {
		ir.PressKey()
		if n < 3 {
			w.wheel.Advance(500 * time.Millisecond)
		}
	}

	w.wheel.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, rec.count(EventInteractionFailed))

	w.wheel.Advance(time.Millisecond)
	require.Equal(t, 1, rec.count(EventInteractionFailed))
	failed, _ := rec.last(EventInteractionFailed)
	assert.Equal(t, 2500*time.Millisecond, failed.At())
	assert.Equal(t, 4, failed.Data().(InteractionPayload).Presses)
	assert.Equal(t, StateStandby, it.State())
	assert.Equal(t, 1.0, it.RemainingProgress())
	assert.Equal(t, 0, w.wheel.Pending())

	w.wheel.Advance(time.Second)
	assert.Equal(t, 0, rec.count(EventInteractionCompleted))
}

func TestMash_TooFewPressesFailAtPeriod(t *testing.T) {
	w := newWorld(t)
	cfg := mashProfile()
	cfg.Period = time.Second
	cfg.KeystrokeThreshold = 2 * time.Second
	it := w.interactable(cfg)
	ir, player := w.interactor(InteractorPassive)
	rec := record(t, it.Events(), interactionEvents...)
	it.OnOverlapBegin(player)

	ir.PressKey()
	w.wheel.Advance(200 * time.Millisecond)
	ir.PressKey()
	w.wheel.Advance(800 * time.Millisecond)

	failed, ok := rec.last(EventInteractionFailed)
	require.True(t, ok)
	assert.Equal(t, time.Second, failed.At())
	assert.Equal(t, StateStandby, it.State())

	ir.PressKey()
	assert.Equal(t, StateActive, it.State(), "a fresh mash starts after failure")
	assert.Equal(t, 2, rec.count(EventInteractionStarted))
}

func TestMash_PeriodFloor(t *testing.T) {
	cfg := mashProfile()
	cfg.Period = time.Millisecond
	assert.Equal(t, MinMashPeriod, cfg.Normalize().Period)
}

func TestAutomatic_RestartsAfterEveryCompletion(t *testing.T) {
	w := newWorld(t)
	cfg := profile(KindAutomatic, time.Second)
	cfg.Lifecycle = LifecycleCycled
	it := w.interactable(cfg)
	ir, player := w.interactor(InteractorPassive)
	rec := record(t, it.Events(), EventInteractionStarted, EventInteractionCompleted)

	it.OnOverlapBegin(player)
	assert.Equal(t, StateActive, it.State())

	ir.ReleaseKey()
	assert.Equal(t, StateActive, it.State(), "keys are ignored")

	w.wheel.Advance(3 * time.Second)
	assert.Equal(t, []string{
		EventInteractionStarted, EventInteractionCompleted,
		EventInteractionStarted, EventInteractionCompleted,
		EventInteractionStarted, EventInteractionCompleted,
		EventInteractionStarted,
	}, rec.types())
	assert.Equal(t, StateActive, it.State())
}

func TestAutomatic_WaitsForCooldown(t *testing.T) {
	w := newWorld(t)
	cfg := profile(KindAutomatic, time.Second)
	cfg.Lifecycle = LifecycleCycled
	cfg.Cooldown = 500 * time.Millisecond
	presenter := &fakePresenter{}
	it := w.interactable(cfg, WithPresenter(presenter))
	_, player := w.interactor(InteractorPassive)
	rec := record(t, it.Events(), EventInteractionStarted, EventInteractionCompleted)

	it.OnOverlapBegin(player)
	w.wheel.Advance(time.Second)
	assert.Equal(t, StateCooldown, it.State())
	assert.False(t, presenter.highlighted)

	w.wheel.Advance(500 * time.Millisecond)
	assert.Equal(t, StateActive, it.State())
	assert.Equal(t, 2, rec.count(EventInteractionStarted))
	started, _ := rec.last(EventInteractionStarted)
	assert.Equal(t, 1500*time.Millisecond, started.At())
}

func TestAutomatic_OneShotHidesAndFinishes(t *testing.T) {
	w := newWorld(t)
	presenter := &fakePresenter{}
	it := w.interactable(profile(KindAutomatic, time.Second), WithPresenter(presenter))
	_, player := w.interactor(InteractorPassive)

	it.OnOverlapBegin(player)
	require.True(t, presenter.visible)
	w.wheel.Advance(time.Second)
	assert.Equal(t, StateFinished, it.State())
	assert.False(t, presenter.visible)
}

func TestHover_CompletesAfterContinuousHover(t *testing.T) {
	w := newWorld(t)
	it := w.interactable(profile(KindHover, time.Second))
	shape := NewShape("panel")
	it.AddCollisionComponent(shape)
	ir, _ := w.interactor(InteractorActive)
	rec := record(t, it.Events(), EventHoverBegan, EventInteractionStarted, EventInteractionCompleted)

	it.HoverBegin(shape)
	assert.Equal(t, StateInactive, it.State(), "hover alone does not bind")

	ir.Trace(it)
	assert.Equal(t, StateActive, it.State())

	w.wheel.Advance(time.Second)
	assert.Equal(t, []string{EventHoverBegan, EventInteractionStarted, EventInteractionCompleted}, rec.types())
	assert.Equal(t, StateFinished, it.State())
}

func TestHover_EndingEarlyReturnsToStandby(t *testing.T) {
	w := newWorld(t)
	it := w.interactable(profile(KindHover, time.Second))
	shape := NewShape("panel")
	ir, _ := w.interactor(InteractorActive)
	rec := record(t, it.Events(), EventHoverEnded, EventInteractionStopped, EventInteractionCompleted)

	ir.Trace(it)
	it.HoverBegin(shape)
	require.Equal(t, StateActive, it.State())

	ir.PressKey()
	ir.ReleaseKey()
	require.Equal(t, StateActive, it.State(), "keys are ignored")

	w.wheel.Advance(400 * time.Millisecond)
	it.HoverEnd(shape)
	assert.Equal(t, StateStandby, it.State())
	assert.Equal(t, []string{EventHoverEnded, EventInteractionStopped}, rec.types())

	w.wheel.Advance(time.Second)
	assert.Equal(t, 0, rec.count(EventInteractionCompleted))
}

func TestHover_IgnoresOverlap(t *testing.T) {
	w := newWorld(t)
	it := w.interactable(profile(KindHover, time.Second))
	_, player := w.interactor(InteractorPassive)

	it.OnOverlapBegin(player)
	assert.Equal(t, StateInactive, it.State())
}

func TestPress_CompletesOnKeyDown(t *testing.T) {
	w := newWorld(t)
	it := w.interactable(profile(KindPress, time.Second))
	ir, player := w.interactor(InteractorPassive)
	rec := record(t, it.Events(), interactionEvents...)

	it.OnOverlapBegin(player)
	ir.PressKey()
	assert.Equal(t, []string{EventInteractionStarted, EventInteractionCompleted}, rec.types())
	assert.Equal(t, 0, w.wheel.Pending())
}

func TestNewStrategy(t *testing.T) {
	for _, kind := range []Kind{KindPress, KindHold, KindMash, KindAutomatic, KindHover} {
		s, err := NewStrategy(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, s.Kind())
	}
	_, err := NewStrategy(Kind(42))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

type countingStrategy struct {
	Press
	starts int
}

func (s *countingStrategy) OnStartRequested(i *Interactable, at time.Duration) {
	s.starts++
	s.Press.OnStartRequested(i, at)
}

func TestWithStrategy_OverridesKind(t *testing.T) {
	w := newWorld(t)
	s := &countingStrategy{}
	it := w.interactable(profile(KindHold, time.Second), WithStrategy(s))
	ir, player := w.interactor(InteractorPassive)

	it.OnOverlapBegin(player)
	ir.PressKey()
	assert.Equal(t, 1, s.starts)
	assert.Equal(t, KindPress, it.Kind())
	assert.Equal(t, StateFinished, it.State())
}
