package interaction

import "time"

// Hold completes once the key has been held for the period. Releasing early
// returns the interactable to Standby.
type Hold struct {
	base
}

func (*Hold) Kind() Kind { return KindHold }

func (*Hold) OnStartRequested(i *Interactable, _ time.Duration) {
	i.ArmInteractionTimer(max(i.cfg.Period, MinPeriod))
}
