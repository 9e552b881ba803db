package hosting

import (
	"fmt"
	"reflect"
	"strings"
)

// MethodBinding is an exported method paired with the receiver it was found on.
type MethodBinding struct {
	name     string
	receiver reflect.Type
	method   reflect.Value
}

// NewMethodBinding binds the method called name on instance.
func NewMethodBinding(instance any, name string) (*MethodBinding, error) {
	if instance == nil {
		return nil, errInvalidArgument("instance can't be nil")
	}

	v := reflect.ValueOf(instance)
	m := v.MethodByName(name)
	if !m.IsValid() {
		return nil, errInvalidArgument(fmt.Sprintf("%s has no method %s", v.Type(), name))
	}

	return &MethodBinding{name: name, receiver: v.Type(), method: m}, nil
}

// FindMethod binds the first of names instance has.
func FindMethod(instance any, names ...string) (*MethodBinding, bool) {
	if instance == nil {
		return nil, false
	}

	for _, name := range names {
		if b, err := NewMethodBinding(instance, name); err == nil {
			return b, true
		}
	}

	return nil, false
}

func (b *MethodBinding) Name() string { return b.name }

// Type is the method type without receiver.
func (b *MethodBinding) Type() reflect.Type { return b.method.Type() }

func (b *MethodBinding) NumIn() int { return b.method.Type().NumIn() }

func (b *MethodBinding) String() string {
	return fmt.Sprintf("(%s).%s", b.receiver, b.name)
}

// Match validates the method against sig.
func (b *MethodBinding) Match(sig Signature) error {
	if !sig.accepts(b.method.Type()) {
		return errSignatureMismatch(b.String(), sig.String())
	}

	return nil
}

// Call invokes the method. Nil args are passed as zero values of the parameter type.
func (b *MethodBinding) Call(args ...any) []reflect.Value {
	t := b.method.Type()
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(t.In(i))
			continue
		}

		in[i] = reflect.ValueOf(arg)
	}

	return b.method.Call(in)
}

// Signature lists the method shapes a binder accepts. Parameter lists must
// match type by type; results only need to be assignable.
type Signature struct {
	Params   [][]reflect.Type
	Results  [][]reflect.Type
	Expected string
}

func (s Signature) accepts(t reflect.Type) bool {
	if t.IsVariadic() {
		return false
	}

	return s.acceptsParams(t) && s.acceptsResults(t)
}

func (s Signature) acceptsParams(t reflect.Type) bool {
outer:
	for _, params := range s.Params {
		if len(params) != t.NumIn() {
			continue
		}

		for i, p := range params {
			if t.In(i) != p {
				continue outer
			}
		}

		return true
	}

	return false
}

func (s Signature) acceptsResults(t reflect.Type) bool {
	if s.Results == nil {
		return t.NumOut() == 0
	}

outer:
	for _, results := range s.Results {
		if len(results) != t.NumOut() {
			continue
		}

		for i, r := range results {
			if !t.Out(i).AssignableTo(r) {
				continue outer
			}
		}

		return true
	}

	return false
}

func (s Signature) String() string {
	if s.Expected != "" {
		return s.Expected
	}

	shapes := make([]string, 0, len(s.Params))
	for _, params := range s.Params {
		names := make([]string, 0, len(params))
		for _, p := range params {
			names = append(names, p.String())
		}

		shapes = append(shapes, "func("+strings.Join(names, ", ")+")")
	}

	return strings.Join(shapes, " or ")
}
