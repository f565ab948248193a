package bridge

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

type ListenerID uint32

// Callback is a script closure invoked when the host relays an event.
type Callback func(args ...any) error

// EventBridge correlates host event listener ids with script callbacks. An id
// holds at most one callback; binding an id again replaces the callback.
type EventBridge struct {
	last      ListenerID
	listeners map[ListenerID]Callback
	owners    map[ListenerID]*Scope
	scope     *Scope
}

func NewEventBridge() *EventBridge {
	return &EventBridge{
		listeners: make(map[ListenerID]Callback),
		owners:    make(map[ListenerID]*Scope),
	}
}

// Listen stores cb under a fresh id. Ids start at 1.
func (b *EventBridge) Listen(cb Callback) ListenerID {
	b.last++
	b.listeners[b.last] = cb
	return b.last
}

func (b *EventBridge) AddListener(id ListenerID, cb Callback) {
	if id > b.last {
		b.last = id
	}
	b.listeners[id] = cb
}

func (b *EventBridge) RemoveListener(id ListenerID) {
	delete(b.listeners, id)
	if s, ok := b.owners[id]; ok {
		s.drop(id)
		delete(b.owners, id)
	}
}

func (b *EventBridge) Has(id ListenerID) bool {
	_, ok := b.listeners[id]
	return ok
}

func (b *EventBridge) Len() int { return len(b.listeners) }

// Invoke relays a host event into script space. The callback runs inside the
// scope that bound it.
func (b *EventBridge) Invoke(id ListenerID, args ...any) error {
	cb, ok := b.listeners[id]
	if !ok {
		return fmt.Errorf("listener %d: %w", id, ErrUnknownListener)
	}
	if s, ok := b.owners[id]; ok {
		defer b.Enter(s)()
	}
	return cb(args...)
}

// Enter makes s the scope that records listeners bound from now on. The
// returned func restores the previous scope.
func (b *EventBridge) Enter(s *Scope) (restore func()) {
	prev := b.scope
	b.scope = s
	return func() { b.scope = prev }
}

// Release unbinds every listener recorded in s. Listeners are dropped from
// the bridge even when the host refuses the unbind; those errors are
// returned together.
func (b *EventBridge) Release(s *Scope) error {
	if s == nil {
		return nil
	}
	var errs error
	for _, id := range slices.Clone(s.ids) {
		if release, ok := s.release[id]; ok {
			errs = multierr.Append(errs, release())
		}
		b.RemoveListener(id)
	}
	return errs
}

func (b *EventBridge) own(id ListenerID, release func() error) {
	if b.scope == nil {
		return
	}
	b.scope.ids = append(b.scope.ids, id)
	b.scope.release[id] = release
	b.owners[id] = b.scope
}

// Scope records the listeners bound by one behavior instance.
type Scope struct {
	ids     []ListenerID
	release map[ListenerID]func() error
}

func NewScope() *Scope {
	return &Scope{release: make(map[ListenerID]func() error)}
}

// Listeners returns the recorded listener ids in bind order.
func (s *Scope) Listeners() []ListenerID {
	if s == nil {
		return nil
	}
	return slices.Clone(s.ids)
}

func (s *Scope) drop(id ListenerID) {
	delete(s.release, id)
	s.ids = slices.DeleteFunc(s.ids, func(l ListenerID) bool { return l == id })
}
