package interaction

import (
	"fmt"
	"strings"
)

// State is the interaction state of an Interactable.
type State uint8

const (
	// StateDisabled is the state of a freshly built or deactivated interactable.
	StateDisabled State = iota
	// StateInactive is armed but not bound to any interactor.
	StateInactive
	// StateStandby is bound to an interactor and ready to start.
	StateStandby
	// StateActive is mid-interaction.
	StateActive
	// StateCooldown waits before the interactable may be used again.
	StateCooldown
	// StateFinished is terminal.
	StateFinished
	// StateSuppressed is turned off by gameplay until resumed.
	StateSuppressed
)

// Alternative names for the same states.
const (
	StateAsleep    = StateInactive
	StateAwake     = StateStandby
	StateCompleted = StateFinished
)

var transitions = map[State][]State{
	StateStandby:    {StateActive, StateInactive},
	StateActive:     {StateCooldown, StateFinished, StateStandby, StateInactive},
	StateInactive:   {StateStandby, StateFinished},
	StateCooldown:   {StateActive, StateStandby, StateInactive},
	StateFinished:   nil,
	StateDisabled:   {StateInactive},
	StateSuppressed: {StateInactive},
}

// CanTransitionTo reports whether a requested transition from s to next is legal.
// Forced transitions (deactivation, suppression, unbinding) bypass this table.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateInactive:
		return "inactive"
	case StateStandby:
		return "standby"
	case StateActive:
		return "active"
	case StateCooldown:
		return "cooldown"
	case StateFinished:
		return "finished"
	case StateSuppressed:
		return "suppressed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// InteractorType selects how an interactor detects candidates.
type InteractorType uint8

const (
	// InteractorActive finds interactables with directed traces.
	InteractorActive InteractorType = iota
	// InteractorPassive finds interactables through overlap volumes.
	InteractorPassive
)

func (t InteractorType) String() string {
	switch t {
	case InteractorActive:
		return "active"
	case InteractorPassive:
		return "passive"
	default:
		return fmt.Sprintf("interactor_type(%d)", uint8(t))
	}
}

func (t InteractorType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *InteractorType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "active":
		*t = InteractorActive
	case "passive":
		*t = InteractorPassive
	default:
		return fmt.Errorf("%w: interactor type %q", ErrInvalidConfig, text)
	}
	return nil
}

// LifecycleMode decides what a completion does to the interactable.
type LifecycleMode uint8

const (
	// LifecycleOneShot finishes the interactable for good on first completion.
	LifecycleOneShot LifecycleMode = iota
	// LifecycleCycled re-arms the interactable, optionally after a cooldown.
	LifecycleCycled
)

func (m LifecycleMode) String() string {
	switch m {
	case LifecycleOneShot:
		return "one_shot"
	case LifecycleCycled:
		return "cycled"
	default:
		return fmt.Sprintf("lifecycle(%d)", uint8(m))
	}
}

func (m LifecycleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *LifecycleMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "one_shot", "oneshot", "one-shot":
		*m = LifecycleOneShot
	case "cycled":
		*m = LifecycleCycled
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLifecycle, text)
	}
	return nil
}

// CycleExhaustion decides what a cycled interactable does once it used up
// its MaxLifecycles budget.
type CycleExhaustion uint8

const (
	// ExhaustionTerminate finishes the interactable on the last allowed cycle.
	ExhaustionTerminate CycleExhaustion = iota
	// ExhaustionContinue keeps cycling forever; the passed-cycle counter
	// stays clamped at the maximum.
	ExhaustionContinue
)

func (c CycleExhaustion) String() string {
	if c == ExhaustionContinue {
		return "continue"
	}
	return "terminate"
}

func (c CycleExhaustion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CycleExhaustion) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "terminate", "":
		*c = ExhaustionTerminate
	case "continue":
		*c = ExhaustionContinue
	default:
		return fmt.Errorf("%w: cycle exhaustion %q", ErrInvalidConfig, text)
	}
	return nil
}

// Kind names an interaction variant.
type Kind uint8

const (
	KindPress Kind = iota
	KindHold
	KindMash
	KindAutomatic
	KindHover
)

func (k Kind) String() string {
	switch k {
	case KindPress:
		return "press"
	case KindHold:
		return "hold"
	case KindMash:
		return "mash"
	case KindAutomatic:
		return "automatic"
	case KindHover:
		return "hover"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "press":
		*k = KindPress
	case "hold":
		*k = KindHold
	case "mash":
		*k = KindMash
	case "automatic", "auto":
		*k = KindAutomatic
	case "hover":
		*k = KindHover
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, text)
	}
	return nil
}
