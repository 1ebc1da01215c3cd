package interaction

import "time"

// Automatic starts on its own whenever it enters Standby and completes after
// the period. Keys are ignored.
type Automatic struct {
	base
}

func (*Automatic) Kind() Kind        { return KindAutomatic }
func (*Automatic) AcceptsKeys() bool { return false }

func (*Automatic) OnStandby(i *Interactable, _ time.Duration) {
	i.StartInteraction()
}

func (*Automatic) OnStartRequested(i *Interactable, _ time.Duration) {
	i.ArmInteractionTimer(max(i.cfg.Period, MinAutomaticPeriod))
}

func (*Automatic) OnStopRequested(*Interactable, time.Duration) bool {
	return false
}

func (*Automatic) OnCompletionTimerFired(i *Interactable, _ time.Duration) {
	i.presenter.Hide()
	i.FinishInteraction()
}
