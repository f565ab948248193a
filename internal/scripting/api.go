package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
)

// APIVersion is exposed to scripts as acro.api_version.
const APIVersion = 1

// api builds the global acro table.
func (e *Engine) api() *lua.LTable {
	t := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"register_behavior": e.registerBehavior,
		"behavior":          e.behavior,
		"lookup":            e.lookup,
		"log":               e.logArgs,
		"vec3":              e.vec3,
		"component_id":      e.componentID,
	})
	t.RawSetString("api_version", lua.LNumber(APIVersion))
	return t
}

// registerBehavior implements acro.register_behavior(name, factory). The
// factory is called as factory(entity, ...args) and returns the behavior
// table; its update(self, dt) method runs every tick.
func (e *Engine) registerBehavior(L *lua.LState) int {
	name := L.CheckString(1)
	factory := L.CheckFunction(2)
	reg := e.ctx.Behaviors()
	reload := reg.HasType(name)
	if err := reg.RegisterType(name, e.constructor(name, factory)); err != nil {
		e.log.Warn("behavior reload incomplete", zap.String("type", name), zap.Error(err))
		e.regErr = multierr.Append(e.regErr, fmt.Errorf("reload %s: %w", name, err))
	}
	if reload {
		e.log.Info("behavior reloaded", zap.String("type", name))
	} else {
		e.log.Debug("behavior registered", zap.String("type", name))
	}
	return 0
}

func (e *Engine) constructor(name string, factory *lua.LFunction) bridge.Constructor {
	return func(_ *bridge.Context, entity bridge.Handle, args ...any) (bridge.Behavior, error) {
		params := append([]lua.LValue{e.toLua(entity)}, e.toLuaArgs(args)...)
		if err := e.vm.CallByParam(lua.P{
			Fn:      factory,
			NRet:    1,
			Protect: true,
		}, params...); err != nil {
			return nil, unwrapLua(err)
		}
		ret := e.vm.Get(-1)
		e.vm.Pop(1)
		self, ok := ret.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("behavior %s factory returned %s, want table", name, ret.Type())
		}
		return &luaBehavior{e: e, self: self}, nil
	}
}

// luaBehavior adapts a Lua behavior table to bridge.Behavior.
type luaBehavior struct {
	e    *Engine
	self *lua.LTable
}

func (b *luaBehavior) Update(dt float64) error {
	fn := b.e.vm.GetField(b.self, "update")
	if fn.Type() != lua.LTFunction {
		return nil
	}
	return unwrapLua(b.e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, b.self, lua.LNumber(dt)))
}

// Table exposes the Lua object behind a behavior created by this engine.
func Table(b bridge.Behavior) (*lua.LTable, bool) {
	lb, ok := b.(*luaBehavior)
	if !ok {
		return nil, false
	}
	return lb.self, true
}

// callback wraps a Lua function as an event listener.
func (e *Engine) callback(fn *lua.LFunction) bridge.Callback {
	return func(args ...any) error {
		return unwrapLua(e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, e.toLuaArgs(args)...))
	}
}

// behavior implements acro.behavior(entity): the standard constructor
// prologue returning {entity = entity, transform = transform}.
func (e *Engine) behavior(L *lua.LState) int {
	h := check[bridge.Handle](L, 1, entityTypeName)
	base, err := bridge.NewBase(e.ctx, h)
	if err != nil {
		return raise(L, err)
	}
	self := L.NewTable()
	self.RawSetString("entity", e.toLua(base.Entity))
	self.RawSetString("transform", e.toLua(base.Transform))
	L.Push(self)
	return 1
}

func (e *Engine) lookup(L *lua.LState) int {
	h, ok := e.ctx.Lookup(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(e.toLua(h))
	return 1
}

func (e *Engine) logArgs(L *lua.LState) int {
	args := make([]any, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		args = append(args, L.ToStringMeta(L.Get(i)).String())
	}
	e.ctx.Log(args...)
	return 0
}

func (e *Engine) vec3(L *lua.LState) int {
	v := bridge.NewVec3(
		float64(L.OptNumber(1, 0)),
		float64(L.OptNumber(2, 0)),
		float64(L.OptNumber(3, 0)),
	)
	L.Push(e.toLua(v))
	return 1
}

func (e *Engine) componentID(L *lua.LState) int {
	id, ok := e.ctx.Kinds().ID(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(id))
	return 1
}
