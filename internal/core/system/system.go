package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: host input and scene changes
	PhasePreUpdate               // 1: relay last tick's events into scripts
	PhaseUpdate                  // 2: create pending behaviors, run behavior updates
	PhasePostUpdate              // 3: script hot reload
	PhaseCleanup                 // 4: destroy queued entities and their behaviors
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every host driver system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
