package sandbox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/interactions/internal/core/interaction"
)

var (
	ErrUnknownAction = errors.New("unknown scenario action")
	ErrUnknownTarget = errors.New("unknown scenario target")
)

// Actions a scenario step can perform.
const (
	ActionApproach   = "approach"
	ActionLeave      = "leave"
	ActionTrace      = "trace"
	ActionClearTrace = "clear_trace"
	ActionPress      = "press"
	ActionRelease    = "release"
	ActionHover      = "hover"
	ActionUnhover    = "unhover"
	ActionSuppress   = "suppress"
	ActionResume     = "resume"
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

var knownActions = map[string]bool{
	ActionApproach: true, ActionLeave: true, ActionTrace: true, ActionClearTrace: true,
	ActionPress: true, ActionRelease: true, ActionHover: true, ActionUnhover: true,
	ActionSuppress: true, ActionResume: true, ActionActivate: true, ActionDeactivate: true,
}

// Step is one scripted input. Actor selects the interactor ("passive" or
// "active") for key steps; Target names an interactable profile.
type Step struct {
	At     time.Duration `yaml:"at"`
	Action string        `yaml:"action"`
	Actor  string        `yaml:"actor,omitempty"`
	Target string        `yaml:"target,omitempty"`
}

type Scenario struct {
	Steps []Step `yaml:"steps"`
}

func LoadScenario(r io.Reader) (Scenario, error) {
	var s Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	for i, step := range s.Steps {
		if !knownActions[step.Action] {
			return Scenario{}, fmt.Errorf("step %d: %w: %q", i, ErrUnknownAction, step.Action)
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return s, nil
}

func LoadScenarioFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer f.Close()
	s, err := LoadScenario(f)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DefaultScenario visits every profile in turn with the interactor suited to
// its kind and plays it through once.
func DefaultScenario(profiles []interaction.Config) Scenario {
	const gap = 500 * time.Millisecond
	var (
		s  Scenario
		at time.Duration
	)
	add := func(action, actor, target string) {
		s.Steps = append(s.Steps, Step{At: at, Action: action, Actor: actor, Target: target})
	}

	for _, p := range profiles {
		switch p.Kind {
		case interaction.KindHover:
			add(ActionTrace, "active", p.Name)
			add(ActionHover, "", p.Name)
			at += p.Period + gap
			add(ActionUnhover, "", p.Name)
			add(ActionClearTrace, "active", "")
		case interaction.KindAutomatic:
			add(ActionApproach, "passive", p.Name)
			at += p.Period + gap
			add(ActionLeave, "passive", p.Name)
		case interaction.KindMash:
			add(ActionApproach, "passive", p.Name)
			step := max(p.KeystrokeThreshold/2, 10*time.Millisecond)
			presses := max(p.MinMashAmount, int(p.Period/step)+1)
			for range presses {
				add(ActionPress, "passive", "")
				at += step / 2
				add(ActionRelease, "passive", "")
				at += step / 2
			}
			at += p.Period
			add(ActionLeave, "passive", p.Name)
		default:
			add(ActionApproach, "passive", p.Name)
			add(ActionPress, "passive", "")
			at += p.Period + gap
			add(ActionRelease, "passive", "")
			add(ActionLeave, "passive", p.Name)
		}
		at += gap
	}
	return s
}

// End returns the time of the last step.
func (s Scenario) End() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}
