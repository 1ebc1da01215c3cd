package interaction

import "time"

// Press completes as soon as the key goes down.
type Press struct {
	base
}

func (*Press) Kind() Kind { return KindPress }

func (*Press) OnStartRequested(i *Interactable, _ time.Duration) {
	i.FinishInteraction()
}
