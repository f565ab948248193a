package bridge

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// InstanceID identifies a behavior instance. The host assigns it when the
// backing simulation object is created; it survives hot reload.
type InstanceID uint32

// Behavior is script-defined per-entity logic.
type Behavior interface {
	Update(dt float64) error
}

// Constructor builds a behavior for entity. It should attach its primary
// component views (see NewBase) before returning.
type Constructor func(c *Context, entity Handle, args ...any) (Behavior, error)

type Instance struct {
	ID       InstanceID
	Entity   Handle
	Type     string
	Args     []any
	Behavior Behavior
	scope    *Scope
}

// Listeners returns the event listeners the instance has bound.
func (i *Instance) Listeners() []ListenerID { return i.scope.Listeners() }

// Registry maps behavior type names to constructors and instance ids to live
// instances. It is owned by a Context and driven from a single goroutine.
type Registry struct {
	ctx       *Context
	log       *zap.Logger
	ctors     map[string]Constructor
	instances map[InstanceID]*Instance
	order     []InstanceID
}

func newRegistry(c *Context, log *zap.Logger) *Registry {
	return &Registry{
		ctx:       c,
		log:       log,
		ctors:     make(map[string]Constructor),
		instances: make(map[InstanceID]*Instance),
	}
}

// RegisterType stores ctor under name. Registering a name that already has a
// constructor is a reload: every live instance built from that name is
// rebuilt with ctor, keeping its id, entity and arguments. Replacements are
// built first and swapped in afterwards, so a reload from inside UpdateAll
// does not disturb the dispatch in progress. A replaced instance's event
// listeners are released. An instance whose replacement fails to construct
// keeps its previous state; those errors are returned.
func (r *Registry) RegisterType(name string, ctor Constructor) error {
	_, reload := r.ctors[name]
	r.ctors[name] = ctor
	if !reload {
		r.log.Debug("behavior type registered", zap.String("type", name))
		return nil
	}

	var ids []InstanceID
	for _, id := range r.order {
		if r.instances[id].Type == name {
			ids = append(ids, id)
		}
	}

	fresh := make(map[InstanceID]*Instance, len(ids))
	var errs error
	for _, id := range ids {
		old := r.instances[id]
		b, scope, err := r.construct(ctor, old.Entity, old.Args)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reload behavior %d (%s): %w", id, name, err))
			continue
		}
		fresh[id] = &Instance{ID: id, Entity: old.Entity, Type: name, Args: old.Args, Behavior: b, scope: scope}
	}
	for id, inst := range fresh {
		r.release(r.instances[id])
		r.instances[id] = inst
	}

	r.log.Info("behavior type reloaded",
		zap.String("type", name),
		zap.Int("instances", len(fresh)),
		zap.Int("failed", len(ids)-len(fresh)),
	)
	return errs
}

// Instantiate constructs name for entity and stores it at id, replacing any
// instance already there and releasing its listeners. On failure the slot is
// left as it was.
func (r *Registry) Instantiate(entity Handle, id InstanceID, name string, args ...any) error {
	ctor, ok := r.ctors[name]
	if !ok {
		return fmt.Errorf("instantiate %q for entity %s: %w", name, entity, ErrUnknownBehaviorType)
	}
	b, scope, err := r.construct(ctor, entity, args)
	if err != nil {
		return fmt.Errorf("instantiate %q for entity %s: %w", name, entity, err)
	}
	if old, exists := r.instances[id]; exists {
		r.release(old)
	} else {
		r.order = append(r.order, id)
	}
	r.instances[id] = &Instance{ID: id, Entity: entity, Type: name, Args: args, Behavior: b, scope: scope}
	return nil
}

// UpdateAll calls Update on every live instance in insertion order. A
// failing or panicking instance does not stop the others; all failures are
// returned together.
func (r *Registry) UpdateAll(dt float64) error {
	snapshot := slices.Clone(r.order)
	var errs error
	for _, id := range snapshot {
		inst, ok := r.instances[id]
		if !ok {
			continue
		}
		restore := r.ctx.events.Enter(inst.scope)
		err := safeUpdate(inst.Behavior, dt)
		restore()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("behavior %d (%s): %w", id, inst.Type, err))
		}
	}
	return errs
}

// Remove drops the instance at id, if any, and releases its listeners.
func (r *Registry) Remove(id InstanceID) bool {
	inst, ok := r.instances[id]
	if !ok {
		return false
	}
	r.release(inst)
	delete(r.instances, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

func (r *Registry) Get(id InstanceID) (*Instance, bool) {
	inst, ok := r.instances[id]
	return inst, ok
}

func (r *Registry) Len() int { return len(r.instances) }

func (r *Registry) HasType(name string) bool {
	_, ok := r.ctors[name]
	return ok
}

// Types lists the registered behavior type names in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// IDs returns the live instance ids in dispatch order.
func (r *Registry) IDs() []InstanceID { return slices.Clone(r.order) }

// construct runs ctor inside a fresh listener scope. Listeners bound by a
// failing constructor are released before returning.
func (r *Registry) construct(ctor Constructor, entity Handle, args []any) (Behavior, *Scope, error) {
	scope := NewScope()
	restore := r.ctx.events.Enter(scope)
	b, err := r.build(ctor, entity, args)
	restore()
	if err != nil {
		if rerr := r.ctx.events.Release(scope); rerr != nil {
			r.log.Debug("release listeners of failed constructor", zap.Error(rerr))
		}
		return nil, nil, err
	}
	return b, scope, nil
}

// release unbinds inst's listeners. The host may already have dropped the
// entity, so failures are only logged.
func (r *Registry) release(inst *Instance) {
	if err := r.ctx.events.Release(inst.scope); err != nil {
		r.log.Debug("release listeners",
			zap.Uint32("instance", uint32(inst.ID)),
			zap.Error(err),
		)
	}
}

func (r *Registry) build(ctor Constructor, entity Handle, args []any) (b Behavior, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("constructor panic: %v", p)
		}
	}()
	b, err = ctor(r.ctx, entity, args...)
	if err == nil && b == nil {
		err = fmt.Errorf("constructor returned no behavior")
	}
	return b, err
}

func safeUpdate(b Behavior, dt float64) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("update panic: %v", p)
		}
	}()
	return b.Update(dt)
}
