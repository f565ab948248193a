package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/acrogo/acro/internal/bridge"
)

const (
	entityTypeName    = "acro.entity"
	vec3TypeName      = "acro.vec3"
	transformTypeName = "acro.transform"
	textTypeName      = "acro.text"
	buttonTypeName    = "acro.button"
	emitterTypeName   = "acro.emitter"
	recordTypeName    = "acro.record"
)

type (
	getter func(L *lua.LState, ud *lua.LUserData) int
	setter func(L *lua.LState, ud *lua.LUserData, v lua.LValue)
)

// userType describes a userdata type exposed to Lua. Keys resolve to
// fields first, then methods, then the dynamic fallbacks.
type userType struct {
	name    string
	fields  map[string]getter
	setters map[string]setter
	methods map[string]lua.LGFunction
	meta    map[string]lua.LGFunction
	get     func(L *lua.LState, ud *lua.LUserData, key string) int
	set     func(L *lua.LState, ud *lua.LUserData, key string, v lua.LValue)

	methodTbl *lua.LTable
}

func (t *userType) register(L *lua.LState) {
	mt := L.NewTypeMetatable(t.name)
	t.methodTbl = L.SetFuncs(L.NewTable(), t.methods)
	L.SetField(mt, "__index", L.NewFunction(t.index))
	L.SetField(mt, "__newindex", L.NewFunction(t.newindex))
	for k, fn := range t.meta {
		L.SetField(mt, k, L.NewFunction(fn))
	}
}

func (t *userType) index(L *lua.LState) int {
	ud := L.CheckUserData(1)
	key := L.CheckString(2)
	if get, ok := t.fields[key]; ok {
		return get(L, ud)
	}
	if m := t.methodTbl.RawGetString(key); m != lua.LNil {
		L.Push(m)
		return 1
	}
	if t.get != nil {
		return t.get(L, ud, key)
	}
	L.RaiseError("%s has no field %q", t.name, key)
	return 0
}

func (t *userType) newindex(L *lua.LState) int {
	ud := L.CheckUserData(1)
	key := L.CheckString(2)
	v := L.CheckAny(3)
	if set, ok := t.setters[key]; ok {
		set(L, ud, v)
		return 0
	}
	if t.set != nil {
		t.set(L, ud, key, v)
		return 0
	}
	L.RaiseError("%s field %q is not assignable", t.name, key)
	return 0
}

func newUserData(L *lua.LState, typeName string, v any) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(typeName))
	return ud
}

func check[T any](L *lua.LState, n int, typeName string) T {
	ud := L.CheckUserData(n)
	v, ok := ud.Value.(T)
	if !ok {
		L.ArgError(n, typeName+" expected")
	}
	return v
}

func value[T any](ud *lua.LUserData) T {
	v, _ := ud.Value.(T)
	return v
}

func pushNumber(L *lua.LState, n float64, err error) int {
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func pushVec(L *lua.LState, v *bridge.Vec3, err error) int {
	if err != nil {
		return raise(L, err)
	}
	L.Push(newUserData(L, vec3TypeName, v))
	return 1
}

func toNumber(L *lua.LState, v lua.LValue) float64 {
	n, ok := v.(lua.LNumber)
	if !ok {
		raise(L, mismatch("value", "number", v))
	}
	return float64(n)
}

func toVec(L *lua.LState, v lua.LValue) *bridge.Vec3 {
	ud, ok := v.(*lua.LUserData)
	if ok {
		if vec, ok := ud.Value.(*bridge.Vec3); ok {
			return vec
		}
	}
	raise(L, mismatch("value", "vec3", v))
	return nil
}

func mismatch(field, want string, got lua.LValue) error {
	return fmt.Errorf("%s: %s expected, got %s: %w", field, want, got.Type(), bridge.ErrTypeMismatch)
}

func registerTypes(L *lua.LState, e *Engine) {
	for _, t := range []*userType{
		entityType(e),
		vec3Type(),
		transformType(),
		textType(),
		buttonType(),
		emitterType(e),
		recordType(e),
	} {
		t.register(L)
	}
	errMT := L.NewTypeMetatable(errorTypeName)
	L.SetField(errMT, "__tostring", L.NewFunction(func(L *lua.LState) int {
		err, _ := L.CheckUserData(1).Value.(error)
		L.Push(lua.LString(fmt.Sprint(err)))
		return 1
	}))
}

func entityType(e *Engine) *userType {
	return &userType{
		name: entityTypeName,
		fields: map[string]getter{
			"generation": func(L *lua.LState, ud *lua.LUserData) int {
				L.Push(lua.LNumber(value[bridge.Handle](ud).Generation))
				return 1
			},
			"index": func(L *lua.LState, ud *lua.LUserData) int {
				L.Push(lua.LNumber(value[bridge.Handle](ud).Index))
				return 1
			},
		},
		methods: map[string]lua.LGFunction{
			"get_component": func(L *lua.LState) int {
				h := check[bridge.Handle](L, 1, entityTypeName)
				c, err := e.ctx.Component(h, L.CheckString(2))
				if err != nil {
					return raise(L, err)
				}
				L.Push(e.toLua(c))
				return 1
			},
		},
		meta: map[string]lua.LGFunction{
			"__eq": func(L *lua.LState) int {
				a := check[bridge.Handle](L, 1, entityTypeName)
				b := check[bridge.Handle](L, 2, entityTypeName)
				L.Push(lua.LBool(a == b))
				return 1
			},
			"__tostring": func(L *lua.LState) int {
				L.Push(lua.LString("entity(" + check[bridge.Handle](L, 1, entityTypeName).String() + ")"))
				return 1
			},
		},
	}
}

func vec3Type() *userType {
	axis := func(read func(*bridge.Vec3) (float64, error)) getter {
		return func(L *lua.LState, ud *lua.LUserData) int {
			n, err := read(value[*bridge.Vec3](ud))
			return pushNumber(L, n, err)
		}
	}
	setAxis := func(write func(*bridge.Vec3, float64) error) setter {
		return func(L *lua.LState, ud *lua.LUserData, v lua.LValue) {
			if err := write(value[*bridge.Vec3](ud), toNumber(L, v)); err != nil {
				raise(L, err)
			}
		}
	}
	binary := func(op func(a, b *bridge.Vec3) (*bridge.Vec3, error)) lua.LGFunction {
		return func(L *lua.LState) int {
			a := check[*bridge.Vec3](L, 1, vec3TypeName)
			b := check[*bridge.Vec3](L, 2, vec3TypeName)
			out, err := op(a, b)
			return pushVec(L, out, err)
		}
	}
	assign := func(op func(a, b *bridge.Vec3) error) lua.LGFunction {
		return func(L *lua.LState) int {
			a := check[*bridge.Vec3](L, 1, vec3TypeName)
			if err := op(a, check[*bridge.Vec3](L, 2, vec3TypeName)); err != nil {
				return raise(L, err)
			}
			L.Push(L.Get(1))
			return 1
		}
	}
	scale := func(L *lua.LState) int {
		// Accepts v:scale(s), v * s and s * v.
		vi, si := 1, 2
		if _, ok := L.Get(1).(lua.LNumber); ok {
			vi, si = 2, 1
		}
		v := check[*bridge.Vec3](L, vi, vec3TypeName)
		out, err := v.Scale(float64(L.CheckNumber(si)))
		return pushVec(L, out, err)
	}
	return &userType{
		name: vec3TypeName,
		fields: map[string]getter{
			"x": axis((*bridge.Vec3).X),
			"y": axis((*bridge.Vec3).Y),
			"z": axis((*bridge.Vec3).Z),
		},
		setters: map[string]setter{
			"x": setAxis((*bridge.Vec3).SetX),
			"y": setAxis((*bridge.Vec3).SetY),
			"z": setAxis((*bridge.Vec3).SetZ),
		},
		methods: map[string]lua.LGFunction{
			"add":        binary((*bridge.Vec3).Add),
			"sub":        binary((*bridge.Vec3).Sub),
			"cross":      binary((*bridge.Vec3).Cross),
			"add_assign": assign((*bridge.Vec3).AddAssign),
			"sub_assign": assign((*bridge.Vec3).SubAssign),
			"scale":      scale,
			"dot": func(L *lua.LState) int {
				a := check[*bridge.Vec3](L, 1, vec3TypeName)
				n, err := a.Dot(check[*bridge.Vec3](L, 2, vec3TypeName))
				return pushNumber(L, n, err)
			},
			"magnitude": func(L *lua.LState) int {
				n, err := check[*bridge.Vec3](L, 1, vec3TypeName).Magnitude()
				return pushNumber(L, n, err)
			},
			"normalized": func(L *lua.LState) int {
				out, err := check[*bridge.Vec3](L, 1, vec3TypeName).Normalized()
				return pushVec(L, out, err)
			},
			"set": func(L *lua.LState) int {
				v := check[*bridge.Vec3](L, 1, vec3TypeName)
				err := v.Set(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4)))
				if err != nil {
					return raise(L, err)
				}
				return 0
			},
			"value": func(L *lua.LState) int {
				x, y, z, err := check[*bridge.Vec3](L, 1, vec3TypeName).Value()
				if err != nil {
					return raise(L, err)
				}
				L.Push(lua.LNumber(x))
				L.Push(lua.LNumber(y))
				L.Push(lua.LNumber(z))
				return 3
			},
		},
		meta: map[string]lua.LGFunction{
			"__add": binary((*bridge.Vec3).Add),
			"__sub": binary((*bridge.Vec3).Sub),
			"__mul": scale,
			"__unm": func(L *lua.LState) int {
				out, err := check[*bridge.Vec3](L, 1, vec3TypeName).Scale(-1)
				return pushVec(L, out, err)
			},
			"__tostring": func(L *lua.LState) int {
				x, y, z, err := check[*bridge.Vec3](L, 1, vec3TypeName).Value()
				if err != nil {
					return raise(L, err)
				}
				L.Push(lua.LString(fmt.Sprintf("vec3(%g, %g, %g)", x, y, z)))
				return 1
			},
		},
	}
}

func transformType() *userType {
	part := func(read func(*bridge.Transform) (*bridge.Vec3, error)) getter {
		return func(L *lua.LState, ud *lua.LUserData) int {
			v, err := read(value[*bridge.Transform](ud))
			return pushVec(L, v, err)
		}
	}
	setPart := func(write func(*bridge.Transform, *bridge.Vec3) error) setter {
		return func(L *lua.LState, ud *lua.LUserData, v lua.LValue) {
			if err := write(value[*bridge.Transform](ud), toVec(L, v)); err != nil {
				raise(L, err)
			}
		}
	}
	derived := func(read func(*bridge.Transform) (*bridge.Vec3, error)) lua.LGFunction {
		return func(L *lua.LState) int {
			v, err := read(check[*bridge.Transform](L, 1, transformTypeName))
			return pushVec(L, v, err)
		}
	}
	return &userType{
		name: transformTypeName,
		fields: map[string]getter{
			"position": part((*bridge.Transform).Position),
			"rotation": part((*bridge.Transform).Rotation),
			"scale":    part((*bridge.Transform).Scale),
		},
		setters: map[string]setter{
			"position": setPart((*bridge.Transform).SetPosition),
			"rotation": setPart((*bridge.Transform).SetRotation),
			"scale":    setPart((*bridge.Transform).SetScale),
		},
		methods: map[string]lua.LGFunction{
			"forward": derived((*bridge.Transform).Forward),
			"right":   derived((*bridge.Transform).Right),
			"up":      derived((*bridge.Transform).Up),
		},
	}
}

func textType() *userType {
	num := func(read func(*bridge.Text) (float64, error)) getter {
		return func(L *lua.LState, ud *lua.LUserData) int {
			n, err := read(value[*bridge.Text](ud))
			return pushNumber(L, n, err)
		}
	}
	setNum := func(write func(*bridge.Text, float64) error) setter {
		return func(L *lua.LState, ud *lua.LUserData, v lua.LValue) {
			if err := write(value[*bridge.Text](ud), toNumber(L, v)); err != nil {
				raise(L, err)
			}
		}
	}
	return &userType{
		name: textTypeName,
		fields: map[string]getter{
			"content": func(L *lua.LState, ud *lua.LUserData) int {
				s, err := value[*bridge.Text](ud).Content()
				if err != nil {
					return raise(L, err)
				}
				L.Push(lua.LString(s))
				return 1
			},
			"italic": func(L *lua.LState, ud *lua.LUserData) int {
				b, err := value[*bridge.Text](ud).Italic()
				if err != nil {
					return raise(L, err)
				}
				L.Push(lua.LBool(b))
				return 1
			},
			"font_size":   num((*bridge.Text).FontSize),
			"line_height": num((*bridge.Text).LineHeight),
			"weight":      num((*bridge.Text).Weight),
		},
		setters: map[string]setter{
			"content": func(L *lua.LState, ud *lua.LUserData, v lua.LValue) {
				str, ok := v.(lua.LString)
				if !ok {
					raise(L, mismatch("content", "string", v))
				}
				if err := value[*bridge.Text](ud).SetContent(string(str)); err != nil {
					raise(L, err)
				}
			},
			"italic": func(L *lua.LState, ud *lua.LUserData, v lua.LValue) {
				b, ok := v.(lua.LBool)
				if !ok {
					raise(L, mismatch("italic", "boolean", v))
				}
				if err := value[*bridge.Text](ud).SetItalic(bool(b)); err != nil {
					raise(L, err)
				}
			},
			"font_size":   setNum((*bridge.Text).SetFontSize),
			"line_height": setNum((*bridge.Text).SetLineHeight),
			"weight":      setNum((*bridge.Text).SetWeight),
		},
	}
}

func buttonType() *userType {
	return &userType{
		name: buttonTypeName,
		fields: map[string]getter{
			"click": func(L *lua.LState, ud *lua.LUserData) int {
				L.Push(newUserData(L, emitterTypeName, value[*bridge.Button](ud).Click))
				return 1
			},
		},
	}
}

func emitterType(e *Engine) *userType {
	return &userType{
		name: emitterTypeName,
		methods: map[string]lua.LGFunction{
			"bind": func(L *lua.LState) int {
				em := check[*bridge.EventEmitter](L, 1, emitterTypeName)
				id, err := em.Bind(e.callback(L.CheckFunction(2)))
				if err != nil {
					return raise(L, err)
				}
				L.Push(lua.LNumber(id))
				return 1
			},
			"unbind": func(L *lua.LState) int {
				em := check[*bridge.EventEmitter](L, 1, emitterTypeName)
				if err := em.Unbind(bridge.ListenerID(L.CheckInt(2))); err != nil {
					return raise(L, err)
				}
				return 0
			},
			"emit": func(L *lua.LState) int {
				em := check[*bridge.EventEmitter](L, 1, emitterTypeName)
				if err := em.Emit(fromLuaArgs(L, 2)...); err != nil {
					return raise(L, err)
				}
				return 0
			},
			"listeners": func(L *lua.LState) int {
				em := check[*bridge.EventEmitter](L, 1, emitterTypeName)
				tbl := L.NewTable()
				for _, id := range em.Listeners() {
					tbl.Append(lua.LNumber(id))
				}
				L.Push(tbl)
				return 1
			},
		},
	}
}

func recordType(e *Engine) *userType {
	return &userType{
		name: recordTypeName,
		get: func(L *lua.LState, ud *lua.LUserData, key string) int {
			v, err := value[*bridge.Record](ud).Get(key)
			if err != nil {
				return raise(L, err)
			}
			L.Push(e.toLua(v))
			return 1
		},
		set: func(L *lua.LState, ud *lua.LUserData, key string, v lua.LValue) {
			if err := value[*bridge.Record](ud).Set(key, fromLua(v)); err != nil {
				raise(L, err)
			}
		},
	}
}
