package bridge

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Context is one script execution context. It owns the component kind
// table, the behavior registry and the event bridge, and is the target of
// every host entry point. Create one per script runtime and drop it with
// the runtime.
type Context struct {
	ch        Channel
	kinds     *Kinds
	behaviors *Registry
	events    *EventBridge
	log       *zap.Logger
}

func NewContext(ch Channel, log *zap.Logger) *Context {
	c := &Context{
		ch:     ch,
		kinds:  NewKinds(),
		events: NewEventBridge(),
		log:    log,
	}
	c.behaviors = newRegistry(c, log)
	return c
}

func (c *Context) Channel() Channel     { return c.ch }
func (c *Context) Kinds() *Kinds        { return c.kinds }
func (c *Context) Behaviors() *Registry { return c.behaviors }
func (c *Context) Events() *EventBridge { return c.events }
func (c *Context) Logger() *zap.Logger  { return c.log }

// RegisterComponentKinds receives the host's component name → id table.
func (c *Context) RegisterComponentKinds(mapping map[string]ComponentKind) {
	c.kinds.Register(mapping)
	c.log.Info("component kinds registered", zap.Strings("kinds", c.kinds.Names()))
}

// CreateBehavior is the host entry point for instantiating a behavior.
func (c *Context) CreateBehavior(generation, index uint32, id InstanceID, typeName string, args ...any) error {
	return c.behaviors.Instantiate(NewHandle(generation, index), id, typeName, args...)
}

func (c *Context) UpdateAll(dt float64) error {
	return c.behaviors.UpdateAll(dt)
}

// Lookup resolves a host hierarchy path to an entity handle.
func (c *Context) Lookup(path string) (Handle, bool) {
	return c.ch.LookupEntityByAbsolutePath(path)
}

// Component returns an attached proxy for the named component of entity.
func (c *Context) Component(entity Handle, kindName string) (any, error) {
	id, ok := c.kinds.ID(kindName)
	if !ok {
		return nil, fmt.Errorf("component %q: %w", kindName, ErrUnknownComponentKind)
	}
	d, ok := c.kinds.Descriptor(id)
	if !ok {
		return nil, fmt.Errorf("component %q has no descriptor: %w", kindName, ErrUnknownComponentKind)
	}
	loc := entity.Attach(id)
	if d.Build == nil {
		return AttachRecord(c.ch, c.events, d, loc), nil
	}
	return d.Build(c, loc), nil
}

// ComponentAs is Component with the proxy type asserted.
func ComponentAs[T any](c *Context, entity Handle, kindName string) (T, error) {
	var zero T
	v, err := c.Component(entity, kindName)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("component %q is %T, not %T: %w", kindName, v, zero, ErrTypeMismatch)
	}
	return t, nil
}

func (c *Context) Transform(entity Handle) (*Transform, error) {
	return ComponentAs[*Transform](c, entity, "Transform")
}

func (c *Context) Text(entity Handle) (*Text, error) {
	return ComponentAs[*Text](c, entity, "Text")
}

func (c *Context) Button(entity Handle) (*Button, error) {
	return ComponentAs[*Button](c, entity, "Button")
}

func (c *Context) Record(entity Handle, kindName string) (*Record, error) {
	return ComponentAs[*Record](c, entity, kindName)
}

// Log is the script console sink.
func (c *Context) Log(args ...any) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	c.log.Info(strings.Join(parts, " "), zap.String("source", "script"))
}

// Base is the common prologue of a behavior: its entity and a live view of
// its own transform.
type Base struct {
	Entity    Handle
	Transform *Transform
}

func NewBase(c *Context, entity Handle) (Base, error) {
	t, err := c.Transform(entity)
	if err != nil {
		return Base{}, err
	}
	return Base{Entity: entity, Transform: t}, nil
}

// Update is a no-op so behaviors embedding Base only override what they use.
func (Base) Update(float64) error { return nil }
