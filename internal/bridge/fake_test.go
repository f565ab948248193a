package bridge

import (
	"fmt"
	"strings"
)

type fieldKey struct {
	index uint32
	kind  ComponentKind
	path  string
}

type callRecord struct {
	loc  Locator
	args []any
}

// fakeChannel is a map-backed host used by the bridge tests.
type fakeChannel struct {
	live   map[uint32]uint32
	values map[fieldKey]any
	paths  map[string]Handle
	calls  []callRecord
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		live:   make(map[uint32]uint32),
		values: make(map[fieldKey]any),
		paths:  make(map[string]Handle),
	}
}

func (f *fakeChannel) spawn(index uint32) Handle {
	gen, ok := f.live[index]
	if ok {
		gen++
	}
	f.live[index] = gen
	for k := range f.values {
		if k.index == index {
			delete(f.values, k)
		}
	}
	return NewHandle(gen, index)
}

func normPath(p string) string {
	var segs []string
	for _, s := range strings.Split(p, ".") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, ".")
}

func (f *fakeChannel) put(h Handle, kind ComponentKind, path string, v any) {
	f.values[fieldKey{h.Index, kind, normPath(path)}] = v
}

func (f *fakeChannel) putVec(h Handle, kind ComponentKind, path string, x, y, z float64) {
	f.put(h, kind, path+".x", x)
	f.put(h, kind, path+".y", y)
	f.put(h, kind, path+".z", z)
}

func (f *fakeChannel) key(op string, loc Locator) (fieldKey, error) {
	gen, ok := f.live[loc.Entity.Index]
	if !ok || gen != loc.Entity.Generation {
		return fieldKey{}, &FieldError{Op: op, Loc: loc, Err: ErrStaleHandle}
	}
	return fieldKey{loc.Entity.Index, loc.Kind, normPath(loc.Path)}, nil
}

func (f *fakeChannel) get(op string, loc Locator) (any, error) {
	k, err := f.key(op, loc)
	if err != nil {
		return nil, err
	}
	v, ok := f.values[k]
	if !ok {
		return nil, &FieldError{Op: op, Loc: loc, Err: ErrUnresolvedPath}
	}
	return v, nil
}

func (f *fakeChannel) set(op string, loc Locator, v any) error {
	k, err := f.key(op, loc)
	if err != nil {
		return err
	}
	old, ok := f.values[k]
	if !ok {
		return &FieldError{Op: op, Loc: loc, Err: ErrUnresolvedPath}
	}
	if fmt.Sprintf("%T", old) != fmt.Sprintf("%T", v) {
		return &FieldError{Op: op, Loc: loc, Err: ErrTypeMismatch}
	}
	f.values[k] = v
	return nil
}

func typed[T any](f *fakeChannel, op string, loc Locator) (T, error) {
	var zero T
	v, err := f.get(op, loc)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &FieldError{Op: op, Loc: loc, Err: ErrTypeMismatch}
	}
	return t, nil
}

func (f *fakeChannel) GetNumber(loc Locator) (float64, error) {
	return typed[float64](f, "getNumber", loc)
}

func (f *fakeChannel) SetNumber(loc Locator, v float64) error {
	return f.set("setNumber", loc, v)
}

func (f *fakeChannel) GetBoolean(loc Locator) (bool, error) {
	return typed[bool](f, "getBoolean", loc)
}

func (f *fakeChannel) SetBoolean(loc Locator, v bool) error {
	return f.set("setBoolean", loc, v)
}

func (f *fakeChannel) GetString(loc Locator) (string, error) {
	return typed[string](f, "getString", loc)
}

func (f *fakeChannel) SetString(loc Locator, v string) error {
	return f.set("setString", loc, v)
}

func (f *fakeChannel) GetVector3(loc Locator) (float64, float64, float64, error) {
	x, err := typed[float64](f, "getVector3", loc.Add("x"))
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := typed[float64](f, "getVector3", loc.Add("y"))
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := typed[float64](f, "getVector3", loc.Add("z"))
	if err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

func (f *fakeChannel) SetVector3(loc Locator, x, y, z float64) error {
	for axis, v := range map[string]float64{"x": x, "y": y, "z": z} {
		if err := f.set("setVector3", loc.Add(axis), v); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeChannel) Call(loc Locator, args ...any) (any, error) {
	if _, err := f.key("call", loc); err != nil {
		return nil, err
	}
	f.calls = append(f.calls, callRecord{loc: loc, args: args})
	return nil, nil
}

func (f *fakeChannel) LookupEntityByAbsolutePath(path string) (Handle, bool) {
	h, ok := f.paths[path]
	return h, ok
}
