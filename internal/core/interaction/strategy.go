package interaction

import (
	"fmt"
	"time"
)

// Strategy carries the variant specific rules of an interaction. The
// Interactable calls it from the single logical thread; at is the current
// world time.
type Strategy interface {
	Kind() Kind
	CanInteract(i *Interactable) bool
	OnStartRequested(i *Interactable, at time.Duration)
	// OnStopRequested returns false to swallow the release.
	OnStopRequested(i *Interactable, at time.Duration) bool
	OnCompletionTimerFired(i *Interactable, at time.Duration)
	OnFailureConditionMet(i *Interactable, at time.Duration)
}

// Optional hooks a Strategy may implement.
type (
	standbyHook interface {
		OnStandby(i *Interactable, at time.Duration)
	}
	hoverHook interface {
		OnHoverBegin(i *Interactable, at time.Duration)
		OnHoverEnd(i *Interactable, at time.Duration)
	}
	resetter interface {
		Reset(i *Interactable)
	}
	keyGate interface {
		AcceptsKeys() bool
	}
	overlapGate interface {
		AcceptsOverlap() bool
	}
	pressCounter interface {
		Presses() int
	}
)

// NewStrategy returns a fresh strategy for kind. Strategies may hold per
// interactable state and must not be shared.
func NewStrategy(kind Kind) (Strategy, error) {
	switch kind {
	case KindPress:
		return &Press{}, nil
	case KindHold:
		return &Hold{}, nil
	case KindMash:
		return &Mash{}, nil
	case KindAutomatic:
		return &Automatic{}, nil
	case KindHover:
		return &Hover{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// base holds the behaviour shared by every variant.
type base struct{}

func (base) CanInteract(i *Interactable) bool {
	return i.canInteractBase()
}

func (base) OnStopRequested(*Interactable, time.Duration) bool {
	return true
}

func (base) OnCompletionTimerFired(i *Interactable, _ time.Duration) {
	i.FinishInteraction()
}

func (base) OnFailureConditionMet(i *Interactable, _ time.Duration) {
	i.FailInteraction()
}
