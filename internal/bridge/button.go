package bridge

import (
	"fmt"
	"slices"
)

// Button mirrors a UI button. Its click emitter lives at "<button>.click".
type Button struct {
	Click *EventEmitter
	at    *binding
}

func NewButton(events *EventBridge) *Button {
	return &Button{Click: NewEventEmitter(events)}
}

func AttachButton(ch Channel, events *EventBridge, loc Locator) *Button {
	return &Button{
		Click: AttachEventEmitter(ch, events, loc.Add("click")),
		at:    bind(ch, loc),
	}
}

func (b *Button) Locator() (Locator, bool) { return b.at.locator() }

// EventEmitter collects script callbacks for one host event source. Binding
// registers the callback with the EventBridge and, when attached, tells the
// host through Call("<emitter>.bind", id).
type EventEmitter struct {
	events   *EventBridge
	handlers []ListenerID
	at       *binding
}

func NewEventEmitter(events *EventBridge) *EventEmitter {
	return &EventEmitter{events: events}
}

func AttachEventEmitter(ch Channel, events *EventBridge, loc Locator) *EventEmitter {
	return &EventEmitter{events: events, at: bind(ch, loc)}
}

func (e *EventEmitter) Bind(cb Callback) (ListenerID, error) {
	id := e.events.Listen(cb)
	if e.at != nil {
		if _, err := e.at.ch.Call(e.at.loc.Add("bind"), id); err != nil {
			e.events.RemoveListener(id)
			return 0, err
		}
	}
	e.handlers = append(e.handlers, id)
	e.events.own(id, func() error { return e.release(id) })
	return id, nil
}

func (e *EventEmitter) Unbind(id ListenerID) error {
	idx := -1
	for i, h := range e.handlers {
		if h == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownListener
	}
	if e.at != nil {
		if _, err := e.at.ch.Call(e.at.loc.Add("unbind"), id); err != nil {
			return err
		}
	}
	e.handlers = append(e.handlers[:idx], e.handlers[idx+1:]...)
	e.events.RemoveListener(id)
	return nil
}

// release drops id locally and then asks the host to unbind it. Unlike
// Unbind it does not stop at a host failure.
func (e *EventEmitter) release(id ListenerID) error {
	e.handlers = slices.DeleteFunc(e.handlers, func(h ListenerID) bool { return h == id })
	e.events.RemoveListener(id)
	if e.at == nil {
		return nil
	}
	if _, err := e.at.ch.Call(e.at.loc.Add("unbind"), id); err != nil {
		return fmt.Errorf("unbind listener %d: %w", id, err)
	}
	return nil
}

// Emit invokes every callback bound through this emitter. Hosts deliver
// remote events through EventBridge.Invoke instead.
func (e *EventEmitter) Emit(args ...any) error {
	for _, id := range e.handlers {
		if err := e.events.Invoke(id, args...); err != nil {
			return err
		}
	}
	return nil
}

func (e *EventEmitter) Listeners() []ListenerID {
	return append([]ListenerID(nil), e.handlers...)
}
