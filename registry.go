package hosting

import (
	"reflect"
)

// ServiceRegistry is the ordered list of registrations a startup configures
// before the container is built. For single resolution the last registration
// of a type wins.
type ServiceRegistry struct {
	descriptors []*ServiceDescriptor
}

func NewRegistry() *ServiceRegistry { return new(ServiceRegistry) }

// Add builds a descriptor from options and appends it.
func (r *ServiceRegistry) Add(opts ...Option) *ServiceDescriptor {
	d := new(ServiceDescriptor)

	for _, opt := range opts {
		opt(d)
	}

	r.Append(d)

	return d
}

// TryAdd registers the service only when its type is not registered yet.
func (r *ServiceRegistry) TryAdd(opts ...Option) bool {
	d := new(ServiceDescriptor)

	for _, opt := range opts {
		opt(d)
	}

	if r.Has(d.ServiceType) {
		return false
	}

	r.Append(d)

	return true
}

func (r *ServiceRegistry) Append(descriptors ...*ServiceDescriptor) {
	for _, d := range descriptors {
		d.validate()
	}

	r.descriptors = append(r.descriptors, descriptors...)
}

// Set registers a resolver func or a pointer to struct, which fields tagged
// with `inject` are filled on first resolution.
func (r *ServiceRegistry) Set(resolver any, tags ...string) {
	typeOf := reflect.TypeOf(resolver)

	if typeOf == nil {
		panic("Registry can't receive nil")
	}

	if typeOf.Kind() == reflect.Func {
		validateFunc(typeOf)

		fn := reflect.ValueOf(resolver)
		r.Append(&ServiceDescriptor{
			ServiceType: typeOf.Out(0),
			Factory: func(c ServiceProvider) any {
				var in []reflect.Value
				if typeOf.NumIn() == 1 {
					in = []reflect.Value{reflect.ValueOf(&c).Elem()}
				}

				out := fn.Call(in)
				if len(out) == 2 && !out[1].IsNil() {
					panic(out[1].Interface())
				}

				return out[0].Interface()
			},
			Tags: tags,
		})

		return
	}

	if typeIndirect(typeOf).Kind() != reflect.Struct {
		panic("Registry can receive only resolver or pointer to struct")
	}

	r.Append(&ServiceDescriptor{
		ServiceType: typeOf,
		Instance:    resolver,
		Tags:        tags,
		autowire:    typeOf.Kind() == reflect.Ptr,
	})
}

// Has checks whether a registration exists for the type of passed value.
func (r *ServiceRegistry) Has(serviceType any) bool {
	for _, d := range r.descriptors {
		if d.TypeOf(serviceType) {
			return true
		}
	}

	return false
}

func (r *ServiceRegistry) Len() int { return len(r.descriptors) }

// Descriptors returns registrations in insertion order.
func (r *ServiceRegistry) Descriptors() []*ServiceDescriptor {
	return append([]*ServiceDescriptor(nil), r.descriptors...)
}

func (r *ServiceRegistry) Clone() *ServiceRegistry {
	c := &ServiceRegistry{descriptors: make([]*ServiceDescriptor, 0, len(r.descriptors))}

	for _, d := range r.descriptors {
		c.descriptors = append(c.descriptors, d.clone())
	}

	return c
}

var (
	providerType = TypeOf[ServiceProvider]()
	errorType    = TypeOf[error]()
)

func validateFunc(typeOf reflect.Type) {
	if typeOf.Kind() != reflect.Func {
		panic("misuse of validateFunc")
	}

	if typeOf.NumIn() > 1 {
		panic("Resolver receives only 1 parameter")
	}
	if typeOf.NumIn() == 1 && typeOf.In(0) != providerType {
		panic("Resolver receives only ServiceProvider")
	}

	if typeOf.NumOut() == 0 || typeOf.NumOut() > 2 {
		panic("resolver must return service")
	}
	if typeOf.NumOut() == 2 && typeOf.Out(1) != errorType {
		panic("resolver may return only service and error")
	}
}
