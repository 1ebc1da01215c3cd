package interaction

import "time"

// Hover is driven by a pointer resting on one of the interactable's volumes
// instead of a key. It binds through traces only and completes after the
// period of continuous hover.
type Hover struct {
	base
}

func (*Hover) Kind() Kind           { return KindHover }
func (*Hover) AcceptsKeys() bool    { return false }
func (*Hover) AcceptsOverlap() bool { return false }

func (*Hover) CanInteract(i *Interactable) bool {
	return i.hovered != nil && i.canInteractBase()
}

func (*Hover) OnStartRequested(i *Interactable, _ time.Duration) {
	i.ArmInteractionTimer(max(i.cfg.Period, MinPeriod))
}

func (*Hover) OnHoverBegin(i *Interactable, _ time.Duration) {
	i.StartInteraction()
}

func (*Hover) OnHoverEnd(i *Interactable, _ time.Duration) {
	i.StopInteraction()
}

// OnStandby restarts the timer when the pointer is already resting on the
// interactable as it becomes ready.
func (*Hover) OnStandby(i *Interactable, _ time.Duration) {
	if i.hovered != nil {
		i.StartInteraction()
	}
}
