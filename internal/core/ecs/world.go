package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. The entity
// stays alive, and addressable, until the queue is flushed.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities, clears their components and
// returns the ids that were actually destroyed. Duplicates and stale ids in
// the queue are skipped.
func (w *World) FlushDestroyQueue() []EntityID {
	return w.FlushDestroyQueueWith(nil)
}

// FlushDestroyQueueWith is FlushDestroyQueue with a hook that sees each
// entity while its components are still present.
func (w *World) FlushDestroyQueueWith(before func(EntityID)) []EntityID {
	var destroyed []EntityID
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		if before != nil {
			before(id)
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		destroyed = append(destroyed, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return destroyed
}
