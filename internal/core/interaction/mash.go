package interaction

import (
	"time"

	"github.com/zeusync/interactions/internal/core/timer"
)

// Mash needs MinMashAmount presses before the period runs out, with no gap
// between two presses longer than KeystrokeThreshold.
//
// The first press starts the completion timer. Every press re-arms the
// keystroke timer; if it fires the interaction fails. When the completion
// timer fires the press count decides between completion and failure.
type Mash struct {
	base
	presses   int
	keystroke timer.Handle
}

func (*Mash) Kind() Kind { return KindMash }

// CanInteract also accepts presses while the mash is running.
func (m *Mash) CanInteract(i *Interactable) bool {
	if i.state == StateActive && i.bound != "" {
		return true
	}
	return i.canInteractBase()
}

func (m *Mash) OnStartRequested(i *Interactable, _ time.Duration) {
	if !i.InteractionTimerActive() {
		i.ArmInteractionTimer(max(i.cfg.Period, MinMashPeriod))
	}
	i.cancelTimer(&m.keystroke)
	m.keystroke = i.sched.Schedule(i.cfg.KeystrokeThreshold, false, func() {
		m.keystroke = timer.InvalidHandle
		m.OnFailureConditionMet(i, i.Now())
	})
	m.presses++
}

// OnStopRequested swallows releases between presses.
func (m *Mash) OnStopRequested(i *Interactable, _ time.Duration) bool {
	return !i.timerActive(m.keystroke)
}

func (m *Mash) OnCompletionTimerFired(i *Interactable, _ time.Duration) {
	if m.presses >= i.cfg.MinMashAmount {
		i.FinishInteraction()
		return
	}
	i.FailInteraction()
}

func (m *Mash) Reset(i *Interactable) {
	i.cancelTimer(&m.keystroke)
	m.presses = 0
}

func (m *Mash) Presses() int { return m.presses }
