//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/interactions/internal/core/interaction"
	"github.com/zeusync/interactions/internal/core/observability/log"
	"github.com/zeusync/interactions/internal/core/timer"
)

func InitializeWorld() *World {
	wire.Build(
		log.Provide,
		wire.Bind(new(log.Log), new(*log.Logger)),
		timer.NewWheel,
		interaction.ProvideRegistry,
		wire.Struct(new(World), "*"),
	)
	return nil
}
