package hosting

import "reflect"

type Option = func(*ServiceDescriptor)

// Default registers s and fills its inject-tagged fields when it is first resolved.
func Default[T any](s T) Option {
	return func(d *ServiceDescriptor) {
		d.setType(TypeOf[T]())
		d.Instance = s
		d.autowire = true
	}
}

// Service registers a ready instance as is.
func Service[T any](s T) Option {
	return func(d *ServiceDescriptor) {
		d.setType(TypeOf[T]())
		d.Instance = s
	}
}

func Resolver[T any, F ~func(ServiceProvider) T](f F) Option {
	return func(d *ServiceDescriptor) {
		d.Instance = nil
		d.Factory = func(c ServiceProvider) any {
			return f(c)
		}

		d.setType(reflect.TypeOf(f).Out(0))
	}
}

// Annotate makes the service resolvable by T as well.
func Annotate[T any]() Option {
	return func(d *ServiceDescriptor) {
		d.Aliases = append(d.Aliases, TypeOf[T]())
	}
}

func Transient() Option {
	return func(d *ServiceDescriptor) { d.Lifetime = LifetimeTransient }
}

func WithTags(tags ...string) Option {
	return func(d *ServiceDescriptor) { d.Tags = append(d.Tags, tags...) }
}
