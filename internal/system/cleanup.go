package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	coresys "github.com/acrogo/acro/internal/core/system"
	"github.com/acrogo/acro/internal/host"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end
// and drops the behaviors that lived on the destroyed entities.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	store *host.Store
	ctx   *bridge.Context
	log   *zap.Logger
}

func NewCleanupSystem(store *host.Store, ctx *bridge.Context, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{store: store, ctx: ctx, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	for _, id := range s.store.Flush() {
		if s.ctx.Behaviors().Remove(id) {
			s.log.Debug("behavior removed with entity", zap.Uint32("instance", uint32(id)))
		}
	}
}
