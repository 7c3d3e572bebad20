package lua

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// ToGo converts a Lua value to a Go value. Integral numbers become int, tables
// become []any when they are sequences and map[string]any otherwise.
// Functions and cyclic references convert to nil.
func ToGo(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	isSeq := n > 0
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	if count != n {
		isSeq = false
	}
	if isSeq {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			out[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return out
	}

	out := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = toGo(v, visited)
	})
	return out
}

// ToLua converts a Go value to a Lua value. Unknown types become their
// fmt representation.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case fmt.Stringer:
		return lua.LString(val.String())
	case []string:
		t := L.NewTable()
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(ToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, ToLua(L, val[k]))
		}
		return t
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

// TableMap converts a table field to map[string]any. A missing field yields
// nil; a non-table raises an argument error.
func TableMap(L *lua.LState, t *lua.LTable, field string) map[string]any {
	switch v := L.GetField(t, field).(type) {
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		m, ok := ToGo(v).(map[string]any)
		if !ok {
			L.RaiseError("%s must be a table of named values", field)
		}
		return m
	default:
		L.RaiseError("%s must be a table, got %s", field, v.Type())
		return nil
	}
}

// TableString returns a string field, or "" when absent.
func TableString(L *lua.LState, t *lua.LTable, field string) string {
	if s, ok := L.GetField(t, field).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// TableBool returns a bool field and whether it was set.
func TableBool(L *lua.LState, t *lua.LTable, field string) (value, ok bool) {
	b, ok := L.GetField(t, field).(lua.LBool)
	return bool(b), ok
}

// Strings reads argument n as a string or a list of strings.
func Strings(L *lua.LState, n int) []string {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var out []string
		v.ForEach(func(_, item lua.LValue) {
			s, ok := item.(lua.LString)
			if !ok {
				L.ArgError(n, "expected a list of strings")
			}
			out = append(out, string(s))
		})
		if len(out) == 0 {
			L.ArgError(n, "list is empty")
		}
		return out
	default:
		L.ArgError(n, "expected a string or a list of strings")
		return nil
	}
}
