package hosting

import (
	"fmt"
	"reflect"
)

// ContainerFactory is the plug-in contract of a container technology. TBuilder
// is the container's native, mutable registration format.
type ContainerFactory[TBuilder any] interface {
	// CreateBuilder returns a builder holding every registration of registry.
	CreateBuilder(registry *ServiceRegistry) (TBuilder, error)
	// CreateProvider finalizes builder. The builder must not be reused.
	CreateProvider(builder TBuilder) (ServiceProvider, error)
}

// ErasedContainerFactory drives a ContainerFactory without knowing its builder type.
type ErasedContainerFactory interface {
	BuilderType() reflect.Type
	BuilderTypeId() TypeId
	CreateBuilder(registry *ServiceRegistry) (any, error)
	CreateProvider(builder any) (ServiceProvider, error)
}

// Erase wraps a typed factory behind ErasedContainerFactory.
func Erase[TBuilder any](factory ContainerFactory[TBuilder]) ErasedContainerFactory {
	if factory == nil {
		panic("container factory can't be nil")
	}

	return &erasedFactory[TBuilder]{factory: factory}
}

type erasedFactory[TBuilder any] struct {
	factory ContainerFactory[TBuilder]
}

func (f *erasedFactory[TBuilder]) BuilderType() reflect.Type { return TypeOf[TBuilder]() }
func (f *erasedFactory[TBuilder]) BuilderTypeId() TypeId     { return TypeIdOf[TBuilder]() }

func (f *erasedFactory[TBuilder]) CreateBuilder(registry *ServiceRegistry) (any, error) {
	builder, err := f.factory.CreateBuilder(registry)
	if err != nil {
		return nil, err
	}

	return builder, nil
}

// CreateProvider panics when builder is not a TBuilder: that is a host wiring
// defect and must not be mistaken for a startup error. A nil builder is the
// zero TBuilder when TBuilder can be nil.
func (f *erasedFactory[TBuilder]) CreateProvider(builder any) (ServiceProvider, error) {
	typed, ok := builder.(TBuilder)
	if !ok && builder == nil && nillable(f.BuilderType()) {
		typed, ok = *new(TBuilder), true
	}

	if !ok {
		panic(errTypeMismatch(f.BuilderType().String(), fmt.Sprintf("%T", builder)))
	}

	return f.factory.CreateProvider(typed)
}

func (f *erasedFactory[TBuilder]) String() string {
	return fmt.Sprintf("%T", f.factory)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// DefaultFactory uses the registry itself as builder and the default Container
// as provider.
type DefaultFactory struct{}

func (DefaultFactory) CreateBuilder(registry *ServiceRegistry) (*ServiceRegistry, error) {
	if registry == nil {
		return nil, errInvalidArgument("registry can't be nil")
	}

	return registry, nil
}

func (DefaultFactory) CreateProvider(builder *ServiceRegistry) (ServiceProvider, error) {
	if builder == nil {
		return nil, errInvalidArgument("builder can't be nil")
	}

	return NewProvider(builder), nil
}

// FactoryFuncs adapts a pair of functions to ContainerFactory.
type FactoryFuncs[TBuilder any] struct {
	Builder  func(*ServiceRegistry) (TBuilder, error)
	Provider func(TBuilder) (ServiceProvider, error)
}

func (f FactoryFuncs[TBuilder]) CreateBuilder(registry *ServiceRegistry) (TBuilder, error) {
	return f.Builder(registry)
}

func (f FactoryFuncs[TBuilder]) CreateProvider(builder TBuilder) (ServiceProvider, error) {
	return f.Provider(builder)
}
