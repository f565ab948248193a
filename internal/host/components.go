package host

import (
	"strings"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/core/ecs"
)

type Vec3 struct {
	X, Y, Z float64
}

type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

func DefaultTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

type Text struct {
	Content    string
	FontSize   float64
	LineHeight float64
	Weight     float64
	Italic     bool
}

func DefaultText() Text {
	return Text{FontSize: 14, LineHeight: 16, Weight: 400}
}

// Emitter holds the script listener ids bound to one event source.
type Emitter struct {
	Listeners []bridge.ListenerID
}

func (e *Emitter) bind(id bridge.ListenerID) {
	for _, l := range e.Listeners {
		if l == id {
			return
		}
	}
	e.Listeners = append(e.Listeners, id)
}

func (e *Emitter) unbind(id bridge.ListenerID) bool {
	for i, l := range e.Listeners {
		if l == id {
			e.Listeners = append(e.Listeners[:i], e.Listeners[i+1:]...)
			return true
		}
	}
	return false
}

type Button struct {
	Click Emitter
}

// Node places an entity in the named hierarchy used by absolute path lookup.
type Node struct {
	Name      string
	Parent    ecs.EntityID
	HasParent bool
	Children  []ecs.EntityID
}

// BehaviorSlot records the script behavior attached to an entity.
type BehaviorSlot struct {
	Type string
	ID   bridge.InstanceID
	Args []any
}

// Record is a component whose fields come from a schema declared at runtime.
// Values hold *float64, *bool, *string, *Vec3 or *Emitter.
type Record struct {
	Values map[string]any
}

func newRecord(schema []bridge.Field) *Record {
	r := &Record{Values: make(map[string]any, len(schema))}
	for _, f := range schema {
		switch f.Type {
		case bridge.FieldNumber:
			r.Values[f.Name] = new(float64)
		case bridge.FieldBoolean:
			r.Values[f.Name] = new(bool)
		case bridge.FieldString:
			r.Values[f.Name] = new(string)
		case bridge.FieldVector3:
			r.Values[f.Name] = new(Vec3)
		case bridge.FieldEvent:
			r.Values[f.Name] = new(Emitter)
		}
	}
	return r
}

// fielder resolves a split field path to a pointer into the component.
type fielder interface {
	field(segs []string) (any, bool)
}

func (v *Vec3) field(segs []string) (any, bool) {
	if len(segs) == 0 {
		return v, true
	}
	if len(segs) > 1 {
		return nil, false
	}
	switch segs[0] {
	case "x":
		return &v.X, true
	case "y":
		return &v.Y, true
	case "z":
		return &v.Z, true
	}
	return nil, false
}

func (t *Transform) field(segs []string) (any, bool) {
	if len(segs) == 0 {
		return t, true
	}
	switch segs[0] {
	case "position":
		return t.Position.field(segs[1:])
	case "rotation":
		return t.Rotation.field(segs[1:])
	case "scale":
		return t.Scale.field(segs[1:])
	}
	return nil, false
}

func (t *Text) field(segs []string) (any, bool) {
	if len(segs) == 0 {
		return t, true
	}
	if len(segs) > 1 {
		return nil, false
	}
	switch segs[0] {
	case "content":
		return &t.Content, true
	case "font_size":
		return &t.FontSize, true
	case "line_height":
		return &t.LineHeight, true
	case "weight":
		return &t.Weight, true
	case "italic":
		return &t.Italic, true
	}
	return nil, false
}

func (b *Button) field(segs []string) (any, bool) {
	if len(segs) == 0 {
		return b, true
	}
	if len(segs) == 1 && segs[0] == "click" {
		return &b.Click, true
	}
	return nil, false
}

func (n *Node) field(segs []string) (any, bool) {
	if len(segs) == 0 {
		return n, true
	}
	if len(segs) == 1 && segs[0] == "name" {
		return &n.Name, true
	}
	return nil, false
}

func (r *Record) field(segs []string) (any, bool) {
	if len(segs) == 0 {
		return r, true
	}
	v, ok := r.Values[segs[0]]
	if !ok {
		return nil, false
	}
	if vec, isVec := v.(*Vec3); isVec {
		return vec.field(segs[1:])
	}
	if len(segs) > 1 {
		return nil, false
	}
	return v, true
}

// splitPath splits a dotted field path, dropping empty segments so that the
// leading dot produced by extending a root locator is harmless.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}
