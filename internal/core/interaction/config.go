package interaction

import (
	"encoding/json"
	"fmt"
	"time"
)

// Period floors. A period below its floor is clamped up, never rejected.
const (
	MinPeriod          = 10 * time.Millisecond
	MinMashPeriod      = 100 * time.Millisecond
	MinAutomaticPeriod = 10 * time.Millisecond
	MinMashAmount      = 2
)

// DefaultChannel is the collision channel interactables respond on when the
// profile does not name one.
const DefaultChannel Channel = "interactable"

// Config is an interaction profile. It decodes from YAML and JSON; durations
// are written as Go duration strings ("1.5s", "250ms").
type Config struct {
	Name               string          `json:"name" yaml:"name"`
	Kind               Kind            `json:"kind" yaml:"kind"`
	Lifecycle          LifecycleMode   `json:"lifecycle" yaml:"lifecycle"`
	MaxLifecycles      int             `json:"max_lifecycles" yaml:"max_lifecycles"`
	CycleExhaustion    CycleExhaustion `json:"cycle_exhaustion" yaml:"cycle_exhaustion"`
	Period             time.Duration   `json:"period" yaml:"period"`
	Cooldown           time.Duration   `json:"cooldown" yaml:"cooldown"`
	KeystrokeThreshold time.Duration   `json:"keystroke_threshold" yaml:"keystroke_threshold"`
	MinMashAmount      int             `json:"min_mash_amount" yaml:"min_mash_amount"`
	Channel            Channel         `json:"channel" yaml:"channel"`
}

func DefaultConfig() Config {
	return Config{
		Kind:               KindPress,
		Lifecycle:          LifecycleOneShot,
		Period:             time.Second,
		KeystrokeThreshold: time.Second,
		MinMashAmount:      MinMashAmount,
		Channel:            DefaultChannel,
	}
}

// Validate rejects values that cannot be clamped into something sensible.
func (c Config) Validate() error {
	if c.Kind > KindHover {
		return fmt.Errorf("%w: %d", ErrUnknownKind, c.Kind)
	}
	if c.Lifecycle > LifecycleCycled {
		return fmt.Errorf("%w: %d", ErrUnknownLifecycle, c.Lifecycle)
	}
	if c.MaxLifecycles < 0 {
		return fmt.Errorf("%w: max_lifecycles must not be negative, got %d", ErrInvalidConfig, c.MaxLifecycles)
	}
	if c.Period < 0 || c.Cooldown < 0 {
		return fmt.Errorf("%w: negative period or cooldown", ErrInvalidConfig)
	}
	if c.Kind == KindMash && c.KeystrokeThreshold <= 0 {
		return fmt.Errorf("%w: mash needs a positive keystroke_threshold", ErrInvalidConfig)
	}
	return nil
}

// Normalize applies the period floors for the configured kind, clamps the
// mash amount and fills the default channel.
func (c Config) Normalize() Config {
	c.Period = max(c.Period, c.Kind.minPeriod())
	if c.MinMashAmount < MinMashAmount {
		c.MinMashAmount = MinMashAmount
	}
	if c.Cooldown < 0 {
		c.Cooldown = 0
	}
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	return c
}

func (k Kind) minPeriod() time.Duration {
	switch k {
	case KindMash:
		return MinMashPeriod
	case KindAutomatic:
		return MinAutomaticPeriod
	default:
		return MinPeriod
	}
}

// UnmarshalJSON accepts durations either as strings or as nanoseconds.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	aux := struct {
		*plain
		Period             jsonDuration `json:"period"`
		Cooldown           jsonDuration `json:"cooldown"`
		KeystrokeThreshold jsonDuration `json:"keystroke_threshold"`
	}{
		plain:              (*plain)(c),
		Period:             jsonDuration(c.Period),
		Cooldown:           jsonDuration(c.Cooldown),
		KeystrokeThreshold: jsonDuration(c.KeystrokeThreshold),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Period = time.Duration(aux.Period)
	c.Cooldown = time.Duration(aux.Cooldown)
	c.KeystrokeThreshold = time.Duration(aux.KeystrokeThreshold)
	return nil
}

type jsonDuration time.Duration

func (d *jsonDuration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = jsonDuration(time.Duration(val))
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		*d = jsonDuration(parsed)
	case nil:
	default:
		return fmt.Errorf("%w: duration must be a string or a number", ErrInvalidConfig)
	}
	return nil
}
