package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/core/event"
	coresys "github.com/acrogo/acro/internal/core/system"
)

// EventRelaySystem rotates the event bus and delivers last tick's host
// events. Button clicks are forwarded to the script listener they name.
// Phase 1 (PreUpdate).
type EventRelaySystem struct {
	bus *event.Bus
	ctx *bridge.Context
	log *zap.Logger
}

func NewEventRelaySystem(bus *event.Bus, ctx *bridge.Context, log *zap.Logger) *EventRelaySystem {
	s := &EventRelaySystem{bus: bus, ctx: ctx, log: log}
	event.Subscribe(bus, s.onButtonClicked)
	event.Subscribe(bus, s.onEntityDestroyed)
	return s
}

func (s *EventRelaySystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventRelaySystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

func (s *EventRelaySystem) onButtonClicked(ev event.ButtonClicked) {
	entity := bridge.NewHandle(ev.Entity.Generation(), ev.Entity.Index())
	if err := s.ctx.Events().Invoke(bridge.ListenerID(ev.Listener), entity); err != nil {
		s.log.Warn("click listener failed",
			zap.Uint32("listener", ev.Listener),
			zap.Stringer("entity", entity),
			zap.Error(err),
		)
	}
}

func (s *EventRelaySystem) onEntityDestroyed(ev event.EntityDestroyed) {
	s.log.Debug("entity destroyed",
		zap.Uint32("index", ev.Entity.Index()),
		zap.Uint32("generation", ev.Entity.Generation()),
	)
}
