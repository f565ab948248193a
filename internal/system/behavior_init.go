package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	coresys "github.com/acrogo/acro/internal/core/system"
	"github.com/acrogo/acro/internal/host"
)

// BehaviorInitSystem instantiates behaviors the host attached since the last
// tick. Register it before ScriptSystem so new behaviors update in the tick
// they are created. Phase 2 (Update).
type BehaviorInitSystem struct {
	store *host.Store
	ctx   *bridge.Context
	log   *zap.Logger
}

func NewBehaviorInitSystem(store *host.Store, ctx *bridge.Context, log *zap.Logger) *BehaviorInitSystem {
	return &BehaviorInitSystem{store: store, ctx: ctx, log: log}
}

func (s *BehaviorInitSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BehaviorInitSystem) Update(_ time.Duration) {
	for _, p := range s.store.PendingBehaviors() {
		err := s.ctx.CreateBehavior(p.Entity.Generation, p.Entity.Index, p.ID, p.Type, p.Args...)
		if err != nil {
			s.log.Warn("create behavior failed",
				zap.String("type", p.Type),
				zap.Stringer("entity", p.Entity),
				zap.Uint32("instance", uint32(p.ID)),
				zap.Error(err),
			)
			continue
		}
		s.log.Debug("behavior created",
			zap.String("type", p.Type),
			zap.Stringer("entity", p.Entity),
			zap.Uint32("instance", uint32(p.ID)),
		)
	}
}
