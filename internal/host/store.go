package host

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/core/ecs"
	"github.com/acrogo/acro/internal/core/event"
)

type recordKind struct {
	kind   ecs.Kind
	schema []bridge.Field
	store  *ecs.Store[Record]
}

// PendingBehavior is a behavior attached on the host side that the script
// context has not instantiated yet.
type PendingBehavior struct {
	Entity bridge.Handle
	ID     bridge.InstanceID
	Type   string
	Args   []any
}

// Store is the reference host. It owns the ECS world and serves the bridge's
// remote property channel against it.
type Store struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger

	transforms *ecs.Store[Transform]
	texts      *ecs.Store[Text]
	buttons    *ecs.Store[Button]
	nodes      *ecs.Store[Node]
	behaviors  *ecs.Store[BehaviorSlot]
	records    map[string]*recordKind
	access     map[ecs.Kind]func(ecs.EntityID) (fielder, bool)

	roots        []ecs.EntityID
	nextInstance bridge.InstanceID
	pending      []PendingBehavior
	doomed       []bridge.InstanceID
}

var _ bridge.Channel = (*Store)(nil)

func NewStore(bus *event.Bus, log *zap.Logger) *Store {
	s := &Store{
		world:      ecs.NewWorld(),
		bus:        bus,
		log:        log,
		transforms: ecs.NewStore[Transform](),
		texts:      ecs.NewStore[Text](),
		buttons:    ecs.NewStore[Button](),
		nodes:      ecs.NewStore[Node](),
		behaviors:  ecs.NewStore[BehaviorSlot](),
		records:    make(map[string]*recordKind),
		access:     make(map[ecs.Kind]func(ecs.EntityID) (fielder, bool)),
	}
	registerKind(s, "Transform", s.transforms)
	registerKind(s, "Text", s.texts)
	registerKind(s, "Button", s.buttons)
	registerKind(s, "Node", s.nodes)
	// Behavior slots are host bookkeeping, not addressable fields.
	if _, err := s.world.Registry().Register("Behavior", s.behaviors); err != nil {
		panic(err)
	}
	return s
}

// registerKind wires a built-in store into the registry and the field
// resolver. Built-in names are fixed, so a clash is a programming error.
func registerKind[T any, PT interface {
	*T
	fielder
}](s *Store, name string, store *ecs.Store[T]) {
	k, err := s.world.Registry().Register(name, store)
	if err != nil {
		panic(err)
	}
	s.access[k] = func(id ecs.EntityID) (fielder, bool) {
		c, ok := store.Get(id)
		if !ok {
			return nil, false
		}
		return PT(c), true
	}
}

// DefineRecord declares a schema-driven component kind.
func (s *Store) DefineRecord(name string, schema []bridge.Field) error {
	store := ecs.NewStore[Record]()
	k, err := s.world.Registry().Register(name, store)
	if err != nil {
		return err
	}
	s.records[name] = &recordKind{kind: k, schema: slices.Clone(schema), store: store}
	s.access[k] = func(id ecs.EntityID) (fielder, bool) {
		c, ok := store.Get(id)
		return c, ok
	}
	s.log.Debug("record kind defined", zap.String("kind", name), zap.Int("fields", len(schema)))
	return nil
}

// ComponentKinds is the name → id table handed to the script context.
func (s *Store) ComponentKinds() map[string]bridge.ComponentKind {
	out := make(map[string]bridge.ComponentKind)
	for name, k := range s.world.Registry().Kinds() {
		out[name] = bridge.ComponentKind(k)
	}
	return out
}

// Descriptors describes the kinds scripts reach through schema-driven
// records: every declared record kind plus Node.
func (s *Store) Descriptors() []bridge.Descriptor {
	out := []bridge.Descriptor{{
		Name:   "Node",
		Fields: []bridge.Field{{Name: "name", Type: bridge.FieldString}},
	}}
	names := make([]string, 0, len(s.records))
	for n := range s.records {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		out = append(out, bridge.Descriptor{Name: n, Fields: slices.Clone(s.records[n].schema)})
	}
	return out
}

func toEntity(h bridge.Handle) ecs.EntityID {
	return ecs.NewEntityID(h.Index, h.Generation)
}

func toHandle(id ecs.EntityID) bridge.Handle {
	return bridge.NewHandle(id.Generation(), id.Index())
}

func (s *Store) alive(h bridge.Handle) (ecs.EntityID, error) {
	id := toEntity(h)
	if !s.world.Alive(id) {
		return 0, fmt.Errorf("entity %s: %w", h, bridge.ErrStaleHandle)
	}
	return id, nil
}

// Spawn creates a root entity with a node and a default transform.
func (s *Store) Spawn(name string) bridge.Handle {
	id := s.world.CreateEntity()
	s.nodes.Set(id, &Node{Name: name})
	t := DefaultTransform()
	s.transforms.Set(id, &t)
	s.roots = append(s.roots, id)
	return toHandle(id)
}

// SpawnChild creates an entity under parent.
func (s *Store) SpawnChild(parent bridge.Handle, name string) (bridge.Handle, error) {
	pid, err := s.alive(parent)
	if err != nil {
		return bridge.Handle{}, err
	}
	pn, ok := s.nodes.Get(pid)
	if !ok {
		return bridge.Handle{}, fmt.Errorf("parent %s has no node: %w", parent, bridge.ErrUnknownComponentKind)
	}
	id := s.world.CreateEntity()
	s.nodes.Set(id, &Node{Name: name, Parent: pid, HasParent: true})
	t := DefaultTransform()
	s.transforms.Set(id, &t)
	pn.Children = append(pn.Children, id)
	return toHandle(id), nil
}

func (s *Store) SetTransform(h bridge.Handle, t Transform) error {
	id, err := s.alive(h)
	if err != nil {
		return err
	}
	s.transforms.Set(id, &t)
	return nil
}

func (s *Store) SetText(h bridge.Handle, t Text) error {
	id, err := s.alive(h)
	if err != nil {
		return err
	}
	s.texts.Set(id, &t)
	return nil
}

func (s *Store) AddButton(h bridge.Handle) error {
	id, err := s.alive(h)
	if err != nil {
		return err
	}
	if !s.buttons.Has(id) {
		s.buttons.Set(id, &Button{})
	}
	return nil
}

// AddRecord attaches a record of a declared kind. Values not named keep their
// zero value; values must match the schema.
func (s *Store) AddRecord(h bridge.Handle, kind string, values map[string]any) error {
	id, err := s.alive(h)
	if err != nil {
		return err
	}
	rk, ok := s.records[kind]
	if !ok {
		return fmt.Errorf("record %q: %w", kind, bridge.ErrUnknownComponentKind)
	}
	r := newRecord(rk.schema)
	for name, v := range values {
		ref, ok := r.Values[name]
		if !ok {
			return fmt.Errorf("record %q field %q: %w", kind, name, bridge.ErrUnresolvedPath)
		}
		if err := assign(ref, v); err != nil {
			return fmt.Errorf("record %q field %q: %w", kind, name, err)
		}
	}
	rk.store.Set(id, r)
	return nil
}

// AttachBehavior assigns a fresh instance id and queues the behavior for the
// script context. The id stays with the entity until it is destroyed.
func (s *Store) AttachBehavior(h bridge.Handle, typeName string, args ...any) (bridge.InstanceID, error) {
	id, err := s.alive(h)
	if err != nil {
		return 0, err
	}
	if prev, ok := s.behaviors.Get(id); ok {
		return 0, fmt.Errorf("entity %s already runs behavior %d (%s)", h, prev.ID, prev.Type)
	}
	s.nextInstance++
	slot := &BehaviorSlot{Type: typeName, ID: s.nextInstance, Args: args}
	s.behaviors.Set(id, slot)
	s.pending = append(s.pending, PendingBehavior{Entity: h, ID: slot.ID, Type: typeName, Args: args})
	return slot.ID, nil
}

// PendingBehaviors drains the queue of behaviors awaiting instantiation.
func (s *Store) PendingBehaviors() []PendingBehavior {
	out := s.pending
	s.pending = nil
	return out
}

// Behavior returns the behavior slot of an entity.
func (s *Store) Behavior(h bridge.Handle) (BehaviorSlot, bool) {
	id, err := s.alive(h)
	if err != nil {
		return BehaviorSlot{}, false
	}
	slot, ok := s.behaviors.Get(id)
	if !ok {
		return BehaviorSlot{}, false
	}
	return *slot, true
}

// Destroy queues h and its descendants for destruction at the end of the
// tick. They stay addressable until Flush.
func (s *Store) Destroy(h bridge.Handle) error {
	id, err := s.alive(h)
	if err != nil {
		return err
	}
	s.markTree(id)
	return nil
}

func (s *Store) markTree(id ecs.EntityID) {
	s.world.MarkForDestruction(id)
	if slot, ok := s.behaviors.Get(id); ok {
		s.doomed = append(s.doomed, slot.ID)
	}
	if n, ok := s.nodes.Get(id); ok {
		for _, c := range n.Children {
			s.markTree(c)
		}
	}
}

// Flush destroys queued entities and returns the behavior instance ids that
// died with them.
func (s *Store) Flush() []bridge.InstanceID {
	for _, id := range s.world.FlushDestroyQueueWith(s.unlink) {
		event.Emit(s.bus, event.EntityDestroyed{Entity: id})
	}
	out := s.doomed
	s.doomed = nil
	return out
}

// unlink detaches a node from its parent (or the root list) before its
// components are cleared.
func (s *Store) unlink(id ecs.EntityID) {
	n, ok := s.nodes.Get(id)
	if !ok {
		return
	}
	if !n.HasParent {
		s.roots = slices.DeleteFunc(s.roots, func(r ecs.EntityID) bool { return r == id })
		return
	}
	if p, ok := s.nodes.Get(n.Parent); ok {
		p.Children = slices.DeleteFunc(p.Children, func(c ecs.EntityID) bool { return c == id })
	}
}

// Click emits one ButtonClicked event per listener bound to the button.
func (s *Store) Click(h bridge.Handle) error {
	id, err := s.alive(h)
	if err != nil {
		return err
	}
	b, ok := s.buttons.Get(id)
	if !ok {
		return fmt.Errorf("entity %s has no button: %w", h, bridge.ErrUnknownComponentKind)
	}
	for _, l := range b.Click.Listeners {
		event.Emit(s.bus, event.ButtonClicked{Entity: id, Listener: uint32(l)})
	}
	return nil
}

// Path returns the absolute hierarchy path of h.
func (s *Store) Path(h bridge.Handle) (string, bool) {
	id, err := s.alive(h)
	if err != nil {
		return "", false
	}
	var segs []string
	for {
		n, ok := s.nodes.Get(id)
		if !ok {
			return "", false
		}
		segs = append(segs, n.Name)
		if !n.HasParent {
			break
		}
		id = n.Parent
	}
	slices.Reverse(segs)
	return "/" + strings.Join(segs, "/"), true
}

func (s *Store) EntityCount() int { return s.world.Pool().Len() }
