package bridge

import "fmt"

// ComponentKind is the integer id the host assigned to a component type.
type ComponentKind uint32

// Handle is a generational reference to a host entity. Index names a storage
// slot; Generation is bumped by the host every time that slot is reused, so a
// handle captured before destruction never aliases the slot's next occupant.
// Handles are plain values: copying, storing and comparing them is always safe.
type Handle struct {
	Generation uint32
	Index      uint32
}

func NewHandle(generation, index uint32) Handle {
	return Handle{Generation: generation, Index: index}
}

// Attach returns a locator addressing the whole component of the given kind.
func (h Handle) Attach(kind ComponentKind) Locator {
	return Locator{Entity: h, Kind: kind}
}

// AttachPath returns a locator addressing path inside the component.
func (h Handle) AttachPath(kind ComponentKind, path string) Locator {
	return Locator{Entity: h, Kind: kind, Path: path}
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

// Locator names one field of one component of one entity. Path is a dotted
// path relative to the component root; "" addresses the whole component.
// Locators are immutable and compare by value.
type Locator struct {
	Entity Handle
	Kind   ComponentKind
	Path   string
}

// Add returns a new locator with segment appended to the path.
func (l Locator) Add(segment string) Locator {
	return Locator{Entity: l.Entity, Kind: l.Kind, Path: l.Path + "." + segment}
}

func (l Locator) String() string {
	return fmt.Sprintf("entity %s kind %d path %q", l.Entity, l.Kind, l.Path)
}
