package hosting

import (
	"reflect"
	"strconv"
	"unsafe"

	goreflect "github.com/goccy/go-reflect"
)

// TypeId is the runtime identity of a Go type.
type TypeId uintptr

func (id TypeId) key() string { return strconv.FormatUint(uint64(id), 16) }

// TypeOf returns the exact type T, including interface types.
func TypeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// TypeIdOf returns the identity of T without pointer normalisation.
func TypeIdOf[T any]() TypeId { return typeId(TypeOf[T]()) }

// IdOf returns the identity of t.
func IdOf(t reflect.Type) TypeId { return typeId(t) }

func typeIndirect(p reflect.Type) reflect.Type {
	if p.Kind() == reflect.Ptr {
		return p.Elem()
	}

	return p
}

func typeId(p reflect.Type) TypeId {
	if p == nil {
		return 0
	}

	return TypeId(uintptr(unsafe.Pointer(goreflect.ToType(p))))
}

// valueTypeId accepts a reflect.Type or any value and returns the identity of
// its pointer-normalised type, so *T, T and (*T)(nil) all address the same
// service.
func valueTypeId(v any) TypeId {
	switch v := v.(type) {
	case nil:
		return 0
	case reflect.Type:
		return typeId(typeIndirect(v))
	default:
		return typeId(typeIndirect(reflect.TypeOf(v)))
	}
}
