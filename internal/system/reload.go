package system

import (
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	coresys "github.com/acrogo/acro/internal/core/system"
)

// Reloader re-runs changed scripts and reports how many ran.
type Reloader interface {
	Reload() (int, error)
}

// ReloadSystem polls the script engine for changed files. Phase 3
// (PostUpdate), so a reload never lands in the middle of behavior updates.
type ReloadSystem struct {
	engine   Reloader
	interval time.Duration
	elapsed  time.Duration
	log      *zap.Logger
}

func NewReloadSystem(engine Reloader, interval time.Duration, log *zap.Logger) *ReloadSystem {
	return &ReloadSystem{engine: engine, interval: interval, log: log}
}

func (s *ReloadSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ReloadSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	n, err := s.engine.Reload()
	for _, e := range multierr.Errors(err) {
		s.log.Error("script reload failed", zap.Error(e))
	}
	if n > 0 {
		s.log.Info("scripts reloaded", zap.Int("files", n))
	}
}
