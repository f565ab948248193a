package bridge

import (
	"sort"

	"golang.org/x/text/cases"
)

type FieldType int

const (
	FieldNumber FieldType = iota
	FieldBoolean
	FieldString
	FieldVector3
	FieldEvent
)

func (t FieldType) String() string {
	switch t {
	case FieldNumber:
		return "number"
	case FieldBoolean:
		return "boolean"
	case FieldString:
		return "string"
	case FieldVector3:
		return "vector3"
	case FieldEvent:
		return "event"
	}
	return "unknown"
}

// ParseFieldType is the inverse of FieldType.String.
func ParseFieldType(s string) (FieldType, bool) {
	for t := FieldNumber; t <= FieldEvent; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

type Field struct {
	Name string
	Type FieldType
}

// Descriptor is what the bridge knows about one component kind: its field
// schema and how to build an attached proxy for it.
type Descriptor struct {
	Name   string
	Fields []Field
	// Build returns a proxy attached at loc. Nil builds a Record over Fields.
	Build func(c *Context, loc Locator) any
}

func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Kinds resolves component kinds by name through the table the host
// registered at startup. Names match case-insensitively.
type Kinds struct {
	ids   map[string]ComponentKind
	names map[ComponentKind]string
	descs map[string]Descriptor
}

func NewKinds() *Kinds {
	k := &Kinds{
		ids:   make(map[string]ComponentKind),
		names: make(map[ComponentKind]string),
		descs: make(map[string]Descriptor),
	}
	for _, d := range builtinDescriptors() {
		k.Define(d)
	}
	return k
}

func fold(name string) string {
	return cases.Fold().String(name)
}

// Define adds or replaces the descriptor for a kind name.
func (k *Kinds) Define(d Descriptor) {
	k.descs[fold(d.Name)] = d
}

// Register records the host's name → id table. Later registrations for the
// same name win.
func (k *Kinds) Register(mapping map[string]ComponentKind) {
	for name, id := range mapping {
		if prev, ok := k.ids[fold(name)]; ok {
			delete(k.names, prev)
		}
		k.ids[fold(name)] = id
		k.names[id] = name
	}
}

func (k *Kinds) ID(name string) (ComponentKind, bool) {
	id, ok := k.ids[fold(name)]
	return id, ok
}

func (k *Kinds) Name(id ComponentKind) (string, bool) {
	n, ok := k.names[id]
	return n, ok
}

// Descriptor returns the descriptor for a registered kind id.
func (k *Kinds) Descriptor(id ComponentKind) (Descriptor, bool) {
	name, ok := k.names[id]
	if !ok {
		return Descriptor{}, false
	}
	d, ok := k.descs[fold(name)]
	return d, ok
}

// Names lists registered kind names in sorted order.
func (k *Kinds) Names() []string {
	out := make([]string, 0, len(k.names))
	for _, n := range k.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name: "Transform",
			Fields: []Field{
				{"position", FieldVector3},
				{"rotation", FieldVector3},
				{"scale", FieldVector3},
			},
			Build: func(c *Context, loc Locator) any { return AttachTransform(c.ch, loc) },
		},
		{
			Name: "Text",
			Fields: []Field{
				{"content", FieldString},
				{"font_size", FieldNumber},
				{"line_height", FieldNumber},
				{"weight", FieldNumber},
				{"italic", FieldBoolean},
			},
			Build: func(c *Context, loc Locator) any { return AttachText(c.ch, loc) },
		},
		{
			Name:   "Button",
			Fields: []Field{{"click", FieldEvent}},
			Build:  func(c *Context, loc Locator) any { return AttachButton(c.ch, c.events, loc) },
		},
	}
}
