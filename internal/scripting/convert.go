package scripting

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/acrogo/acro/internal/bridge"
)

const errorTypeName = "acro.error"

// raise throws err into Lua. The error travels as userdata so a protected
// call on the Go side gets the Go error back.
func raise(L *lua.LState, err error) int {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(errorTypeName))
	L.Error(ud, 1)
	return 0
}

// unwrapLua turns an error raised through raise back into the Go error.
func unwrapLua(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	if ud, ok := apiErr.Object.(*lua.LUserData); ok {
		if inner, ok := ud.Value.(error); ok {
			return inner
		}
	}
	return err
}

func (e *Engine) toLua(v any) lua.LValue {
	L := e.vm
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return t
	case bool:
		return lua.LBool(t)
	case float64:
		return lua.LNumber(t)
	case float32:
		return lua.LNumber(t)
	case int:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case uint32:
		return lua.LNumber(t)
	case bridge.ListenerID:
		return lua.LNumber(t)
	case bridge.InstanceID:
		return lua.LNumber(t)
	case string:
		return lua.LString(t)
	case bridge.Handle:
		return newUserData(L, entityTypeName, t)
	case *bridge.Vec3:
		return newUserData(L, vec3TypeName, t)
	case *bridge.Transform:
		return newUserData(L, transformTypeName, t)
	case *bridge.Text:
		return newUserData(L, textTypeName, t)
	case *bridge.Button:
		return newUserData(L, buttonTypeName, t)
	case *bridge.EventEmitter:
		return newUserData(L, emitterTypeName, t)
	case *bridge.Record:
		return newUserData(L, recordTypeName, t)
	case []any:
		tbl := L.NewTable()
		for _, x := range t {
			tbl.Append(e.toLua(x))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, x := range t {
			tbl.RawSetString(k, e.toLua(x))
		}
		return tbl
	}
	return lua.LString(fmt.Sprint(v))
}

func fromLua(lv lua.LValue) any {
	switch t := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(t)
	case lua.LNumber:
		return float64(t)
	case lua.LString:
		return string(t)
	case *lua.LUserData:
		return t.Value
	case *lua.LTable:
		if n := t.MaxN(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, fromLua(t.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		t.ForEach(func(k, v lua.LValue) {
			if s, ok := k.(lua.LString); ok {
				out[string(s)] = fromLua(v)
			}
		})
		return out
	}
	return lv
}

func (e *Engine) toLuaArgs(args []any) []lua.LValue {
	out := make([]lua.LValue, len(args))
	for i, a := range args {
		out[i] = e.toLua(a)
	}
	return out
}

func fromLuaArgs(L *lua.LState, from int) []any {
	var out []any
	for i := from; i <= L.GetTop(); i++ {
		out = append(out, fromLua(L.Get(i)))
	}
	return out
}
