package host

import (
	"fmt"
	"strings"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/core/ecs"
)

func fieldErr(op string, loc bridge.Locator, err error) error {
	return &bridge.FieldError{Op: op, Loc: loc, Err: err}
}

// component finds the component addressed by loc on a live entity.
func (s *Store) component(op string, loc bridge.Locator) (fielder, error) {
	id := toEntity(loc.Entity)
	if !s.world.Alive(id) {
		return nil, fieldErr(op, loc, bridge.ErrStaleHandle)
	}
	access, ok := s.access[ecs.Kind(loc.Kind)]
	if !ok {
		return nil, fieldErr(op, loc, bridge.ErrUnknownComponentKind)
	}
	c, ok := access(id)
	if !ok {
		return nil, fieldErr(op, loc, bridge.ErrUnknownComponentKind)
	}
	return c, nil
}

func (s *Store) resolve(op string, loc bridge.Locator) (any, error) {
	c, err := s.component(op, loc)
	if err != nil {
		return nil, err
	}
	ref, ok := c.field(splitPath(loc.Path))
	if !ok {
		return nil, fieldErr(op, loc, bridge.ErrUnresolvedPath)
	}
	return ref, nil
}

func resolveAs[T any](s *Store, op string, loc bridge.Locator) (*T, error) {
	ref, err := s.resolve(op, loc)
	if err != nil {
		return nil, err
	}
	p, ok := ref.(*T)
	if !ok {
		return nil, fieldErr(op, loc, bridge.ErrTypeMismatch)
	}
	return p, nil
}

func (s *Store) GetNumber(loc bridge.Locator) (float64, error) {
	p, err := resolveAs[float64](s, "getNumber", loc)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

func (s *Store) SetNumber(loc bridge.Locator, v float64) error {
	p, err := resolveAs[float64](s, "setNumber", loc)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (s *Store) GetBoolean(loc bridge.Locator) (bool, error) {
	p, err := resolveAs[bool](s, "getBoolean", loc)
	if err != nil {
		return false, err
	}
	return *p, nil
}

func (s *Store) SetBoolean(loc bridge.Locator, v bool) error {
	p, err := resolveAs[bool](s, "setBoolean", loc)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (s *Store) GetString(loc bridge.Locator) (string, error) {
	p, err := resolveAs[string](s, "getString", loc)
	if err != nil {
		return "", err
	}
	return *p, nil
}

func (s *Store) SetString(loc bridge.Locator, v string) error {
	p, err := resolveAs[string](s, "setString", loc)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (s *Store) GetVector3(loc bridge.Locator) (float64, float64, float64, error) {
	p, err := resolveAs[Vec3](s, "getVector3", loc)
	if err != nil {
		return 0, 0, 0, err
	}
	return p.X, p.Y, p.Z, nil
}

func (s *Store) SetVector3(loc bridge.Locator, x, y, z float64) error {
	p, err := resolveAs[Vec3](s, "setVector3", loc)
	if err != nil {
		return err
	}
	*p = Vec3{x, y, z}
	return nil
}

// Call runs the method named by the last path segment on the field the rest
// of the path resolves to. Emitters support bind and unbind with a listener
// id argument.
func (s *Store) Call(loc bridge.Locator, args ...any) (any, error) {
	const op = "call"
	c, err := s.component(op, loc)
	if err != nil {
		return nil, err
	}
	segs := splitPath(loc.Path)
	if len(segs) == 0 {
		return nil, fieldErr(op, loc, bridge.ErrUnresolvedPath)
	}
	method := segs[len(segs)-1]
	ref, ok := c.field(segs[:len(segs)-1])
	if !ok {
		return nil, fieldErr(op, loc, bridge.ErrUnresolvedPath)
	}
	em, ok := ref.(*Emitter)
	if !ok {
		return nil, fieldErr(op, loc, bridge.ErrTypeMismatch)
	}
	if len(args) != 1 {
		return nil, fieldErr(op, loc, fmt.Errorf("%s wants 1 argument, got %d", method, len(args)))
	}
	id, ok := toListener(args[0])
	if !ok {
		return nil, fieldErr(op, loc, fmt.Errorf("listener id %T: %w", args[0], bridge.ErrTypeMismatch))
	}
	switch method {
	case "bind":
		em.bind(id)
		return nil, nil
	case "unbind":
		return em.unbind(id), nil
	}
	return nil, fieldErr(op, loc, bridge.ErrUnresolvedPath)
}

func toListener(v any) (bridge.ListenerID, bool) {
	switch n := v.(type) {
	case bridge.ListenerID:
		return n, true
	case uint32:
		return bridge.ListenerID(n), true
	case int:
		return bridge.ListenerID(n), n >= 0
	case float64:
		return bridge.ListenerID(n), n >= 0 && n == float64(uint32(n))
	}
	return 0, false
}

// LookupEntityByAbsolutePath resolves "/A/B/C" by walking node names from
// the roots. The first child matching a name wins.
func (s *Store) LookupEntityByAbsolutePath(path string) (bridge.Handle, bool) {
	if !strings.HasPrefix(path, "/") {
		return bridge.Handle{}, false
	}
	segs := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return bridge.Handle{}, false
	}
	level := s.roots
	var found ecs.EntityID
	for _, name := range segs {
		matched := false
		for _, id := range level {
			n, ok := s.nodes.Get(id)
			if ok && n.Name == name {
				found, level, matched = id, n.Children, true
				break
			}
		}
		if !matched {
			return bridge.Handle{}, false
		}
	}
	return toHandle(found), true
}

// assign stores a scene value into a record field pointer.
func assign(ref any, v any) error {
	switch p := ref.(type) {
	case *float64:
		n, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("want number, got %T: %w", v, bridge.ErrTypeMismatch)
		}
		*p = n
	case *bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("want boolean, got %T: %w", v, bridge.ErrTypeMismatch)
		}
		*p = b
	case *string:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("want string, got %T: %w", v, bridge.ErrTypeMismatch)
		}
		*p = str
	case *Vec3:
		vec, err := toVec3(v)
		if err != nil {
			return err
		}
		*p = vec
	default:
		return fmt.Errorf("field of type %T cannot be assigned: %w", ref, bridge.ErrTypeMismatch)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toVec3(v any) (Vec3, error) {
	switch t := v.(type) {
	case Vec3:
		return t, nil
	case []float64:
		if len(t) == 3 {
			return Vec3{t[0], t[1], t[2]}, nil
		}
	case []any:
		if len(t) == 3 {
			var out [3]float64
			for i, e := range t {
				n, ok := toFloat(e)
				if !ok {
					return Vec3{}, fmt.Errorf("vector component %d is %T: %w", i, e, bridge.ErrTypeMismatch)
				}
				out[i] = n
			}
			return Vec3{out[0], out[1], out[2]}, nil
		}
	}
	return Vec3{}, fmt.Errorf("want 3 component vector, got %v: %w", v, bridge.ErrTypeMismatch)
}
