package lua

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	lua "github.com/yuin/gopher-lua"
)

// maxDepth stops conversion of self-referencing values.
const maxDepth = 32

// Bridge converts values between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value.
// Tables with keys 1..n become []any, other tables map[string]any.
// Functions and userdata without a value convert to nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGo(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case nil:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return b.tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = kv.String()
		default:
			return
		}
		m[key] = b.toGo(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value.
//
// Structs become tables keyed by json tag, or by the field name with a
// lowercase first letter when there is no tag. Decimals become numbers and
// a null decimal becomes nil. Errors and times become strings.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	return b.toLua(v, 0)
}

func (b *Bridge) toLua(v any, depth int) lua.LValue {
	if depth > maxDepth {
		return lua.LNil
	}

	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case []byte:
		return lua.LString(val)
	case decimal.Decimal:
		return lua.LNumber(val.InexactFloat64())
	case decimal.NullDecimal:
		if !val.Valid {
			return lua.LNil
		}
		return lua.LNumber(val.Decimal.InexactFloat64())
	case time.Time:
		return lua.LString(val.Format(time.RFC3339Nano))
	case time.Duration:
		return lua.LNumber(val.Seconds())
	case error:
		return lua.LString(val.Error())
	}
	return b.reflectToLua(reflect.ValueOf(v), depth)
}

func (b *Bridge) reflectToLua(rv reflect.Value, depth int) lua.LValue {
	if !rv.IsValid() {
		return lua.LNil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return lua.LNil
		}
		return b.toLua(rv.Elem().Interface(), depth+1)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return b.L.NewTable()
		}
		t := b.L.CreateTable(rv.Len(), 0)
		for i := 0; i < rv.Len(); i++ {
			t.RawSetInt(i+1, b.toLua(rv.Index(i).Interface(), depth+1))
		}
		return t

	case reflect.Map:
		t := b.L.CreateTable(0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := b.toLua(iter.Key().Interface(), depth+1)
			if k == lua.LNil {
				continue
			}
			t.RawSet(k, b.toLua(iter.Value().Interface(), depth+1))
		}
		return t

	case reflect.Struct:
		t := b.L.NewTable()
		b.fillStruct(t, rv, depth)
		return t
	}

	ud := b.L.NewUserData()
	ud.Value = rv.Interface()
	return ud
}

// fillStruct copies the exported fields of rv into t. Embedded structs
// without a tag are flattened.
func (b *Bridge) fillStruct(t *lua.LTable, rv reflect.Value, depth int) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" || !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if field.Anonymous && name == "" {
			fv := rv.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				b.fillStruct(t, fv, depth+1)
				continue
			}
		}
		if name == "" {
			name = lowerFirst(field.Name)
		}
		t.RawSetString(name, b.toLua(rv.Field(i).Interface(), depth+1))
	}
}

// lowerFirst turns an exported Go field name into a Lua key,
// e.g. "ProductID" into "productID".
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return fmt.Sprintf("%c%s", unicode.ToLower(r), s[size:])
}
