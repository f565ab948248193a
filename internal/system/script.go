package system

import (
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	coresys "github.com/acrogo/acro/internal/core/system"
)

// ScriptSystem runs every behavior's update once per tick. Failing
// behaviors are logged and keep running. When the context talks to the host
// through a CountingChannel, the remote calls made by the updates are logged
// at debug level. Phase 2 (Update).
type ScriptSystem struct {
	ctx *bridge.Context
	log *zap.Logger
}

func NewScriptSystem(ctx *bridge.Context, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{ctx: ctx, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	counter, counting := s.ctx.Channel().(*bridge.CountingChannel)
	if counting {
		counter.Reset()
	}
	err := s.ctx.UpdateAll(dt.Seconds())
	for _, e := range multierr.Errors(err) {
		s.log.Warn("behavior update failed", zap.Error(e))
	}
	if counting {
		s.log.Debug("behaviors updated",
			zap.Int("instances", s.ctx.Behaviors().Len()),
			zap.Int("remote_calls", counter.Total()),
			zap.Int("reads", counter.Count(bridge.OpGetNumber)+counter.Count(bridge.OpGetVector3)),
			zap.Int("writes", counter.Count(bridge.OpSetNumber)+counter.Count(bridge.OpSetVector3)),
		)
	}
}
