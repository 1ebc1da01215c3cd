package injector

import (
	"github.com/zeusync/interactions/internal/core/interaction"
	"github.com/zeusync/interactions/internal/core/observability/log"
	"github.com/zeusync/interactions/internal/core/timer"
)

// World bundles the shared services every interaction component is built on.
type World struct {
	Logger   log.Log
	Wheel    *timer.Wheel
	Registry *interaction.Registry
}

// NewWorld wires a World by hand with the same providers as InitializeWorld.
func NewWorld(logger log.Log) *World {
	if logger == nil {
		logger = log.Provide()
	}
	return &World{
		Logger:   logger,
		Wheel:    timer.NewWheel(),
		Registry: interaction.ProvideRegistry(),
	}
}
