package event

import "github.com/acrogo/acro/internal/core/ecs"

// ButtonClicked is emitted once per listener bound to a clicked button's
// click emitter.
type ButtonClicked struct {
	Entity   ecs.EntityID
	Listener uint32
}

// EntityDestroyed is emitted when the destroy queue is flushed.
type EntityDestroyed struct {
	Entity ecs.EntityID
}
