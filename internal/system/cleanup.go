package system

import (
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem evicts corpses from the registry at tick end. Phase 2
// (Cleanup). Only registered when the eviction policy is on; by default
// dead actors stay registered with alive=false.
type CleanupSystem struct {
	registry *world.Registry
	log      *zap.Logger
}

func NewCleanupSystem(registry *world.Registry, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{registry: registry, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(tick *Tick) {
	n := s.registry.EvictDead()
	tick.Evicted += n
	if n > 0 {
		s.log.Debug("evicted corpses", zap.Uint64("tick", tick.Seq), zap.Int("count", n))
	}
}
