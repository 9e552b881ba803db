package hosting

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"
)

const (
	// Use injectTag to inject dependency into a service
	injectTag = "inject"
)

type entry struct {
	descriptor *ServiceDescriptor
	resolved   any
	built      atomic.Bool
	mu         sync.Mutex
}

func newEntry(d *ServiceDescriptor) *entry { return &entry{descriptor: d} }

func (e *entry) Build(c *Container, stack visitedStack[*entry]) any {
	if e.built.Load() {
		return e.resolved
	}

	if stack.Contains(e) {
		// A struct being autowired is published before its fields are filled,
		// so it can take part in a cycle.
		if e.resolved != nil {
			return e.resolved
		}

		panic(fmt.Sprintf("circular dependency: %s", chain(stack.Push(e))))
	}

	stack = stack.Push(e)

	if e.descriptor.Lifetime == LifetimeTransient {
		return e.construct(c, stack)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.built.Load() {
		e.resolved = e.construct(c, stack)
		e.built.Store(true)
	}

	return e.resolved
}

func (e *entry) construct(c *Container, stack visitedStack[*entry]) any {
	var service any

	switch d := e.descriptor; {
	case d.Factory != nil:
		service = d.Factory(&resolution{Container: c, stack: stack})
	case d.autowire && d.Lifetime == LifetimeTransient:
		service = c.autowire(nil, reflect.New(typeIndirect(reflect.TypeOf(d.Instance))).Interface(), stack)
	case d.autowire:
		service = c.autowire(e, d.Instance, stack)
	default:
		service = d.Instance
	}

	if s, ok := service.(Constructable); ok {
		s.Constructor()
	}

	return service
}

func (e *entry) Destroy() {
	if !e.built.Load() {
		return
	}

	if s, ok := e.resolved.(Destructible); ok {
		s.Destructor()
	}

	e.resolved = nil
	e.built.Store(false)
}

func chain(stack visitedStack[*entry]) string {
	names := make([]string, 0, len(stack))
	for _, e := range stack {
		names = append(names, e.descriptor.ServiceType.String())
	}

	return strings.Join(names, " -> ")
}

func (c *Container) autowire(e *entry, service any, stack visitedStack[*entry]) any {
	if e != nil {
		e.resolved = service
	}

	s := reflect.Indirect(reflect.ValueOf(service))
	if s.Kind() != reflect.Struct || !s.CanAddr() {
		return service
	}

	for i := 0; i < s.NumField(); i++ {
		tag, ok := s.Type().Field(i).Tag.Lookup(injectTag)
		if !ok {
			continue
		}

		field := s.Field(i)
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()

		if len(tag) > 0 {
			c.injectTagged(field, tag, stack)
			continue
		}

		id := valueTypeId(field.Type())
		dep := c.lookup(id)

		if dep == nil {
			if field.Type().Kind() == reflect.Interface {
				panic(fmt.Sprintf(`interface type %s without bound value. Remove "inject" tag or register a service of this type`, field.Type()))
			}

			dep = c.implicit(id, field.Type())
		}

		setField(field, dep.Build(c, stack))
	}

	return service
}

func (c *Container) injectTagged(field reflect.Value, tag string, stack visitedStack[*entry]) {
	if field.Kind() != reflect.Slice {
		panic("tagged field must be slice")
	}

	tagged := c.tagged(tag)
	if len(tagged) == 0 {
		return
	}

	if field.IsNil() || field.Len() < len(tagged) {
		field.Set(reflect.MakeSlice(field.Type(), len(tagged), len(tagged)))
	}

	for j, item := range tagged {
		setField(field.Index(j), item.Build(c, stack))
	}
}

// implicit registers an unbound struct dependency the way it would be if it
// were registered by pointer.
func (c *Container) implicit(id TypeId, fieldType reflect.Type) *entry {
	d := &ServiceDescriptor{
		ServiceType: fieldType,
		Instance:    reflect.New(typeIndirect(fieldType)).Interface(),
		autowire:    true,
	}

	e, _ := c.index.LoadOrStore(id.key(), newEntry(d))

	return e
}

func setField(field reflect.Value, service any) {
	value := reflect.ValueOf(service)

	switch {
	case !value.IsValid():
		return
	case value.Type().AssignableTo(field.Type()):
		field.Set(value)
	case value.Kind() == reflect.Ptr && value.Elem().Type().AssignableTo(field.Type()):
		field.Set(value.Elem())
	default:
		panic(fmt.Sprintf("service %s can't be injected into field of type %s", value.Type(), field.Type()))
	}
}
