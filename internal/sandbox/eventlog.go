package sandbox

import (
	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/observability/log"
)

// eventLog writes every observed event to the logger.
type eventLog struct {
	logger log.Log
}

func (l eventLog) OnPublish(e bus.Event) {
	l.logger.Info(e.Type(),
		log.String("source", e.Source()),
		log.Duration("at", e.At()),
		log.Any("data", e.Data()),
	)
}

func (l eventLog) OnDelivered(e bus.Event, handlers int, err error) {
	if err != nil {
		l.logger.Warn("event handlers failed", log.String("event", e.Type()), log.Int("handlers", handlers), log.Error(err))
	}
}
