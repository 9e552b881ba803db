package hosting

import (
	"fmt"
	"reflect"
)

// Startup is the set of configuration delegates an application supplies.
// Every delegate is optional.
type Startup struct {
	services        ConfigureServicesFunc
	container       ConfigureContainerFunc
	builderType     reflect.Type
	containerMethod *MethodBinding
}

type StartupOption func(*Startup)

func NewStartup(opts ...StartupOption) *Startup {
	s := new(Startup)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithServices configures the registry the active factory builds from.
func WithServices(fn func(*ServiceRegistry) error) StartupOption {
	return func(s *Startup) {
		s.services = func(r *ServiceRegistry) (ServiceProvider, error) {
			return nil, fn(r)
		}
	}
}

// WithServiceProvider lets the startup build the provider itself. When fn
// returns a provider the factory and the container delegate are skipped.
func WithServiceProvider(fn ConfigureServicesFunc) StartupOption {
	return func(s *Startup) { s.services = fn }
}

// WithContainer configures the native builder of the active factory and
// declares TBuilder as the builder type this startup is written against.
func WithContainer[TBuilder any](fn func(TBuilder) error) StartupOption {
	return func(s *Startup) {
		s.builderType = TypeOf[TBuilder]()
		s.containerMethod = nil
		s.container = func(builder any) error {
			typed, ok := builder.(TBuilder)
			if !ok {
				panic(errTypeMismatch(s.builderType.String(), fmt.Sprintf("%T", builder)))
			}

			return fn(typed)
		}
	}
}

// FromObject discovers the configuration methods of instance. Methods
// specific to the environment, like ConfigureDevelopmentServices, take
// precedence over ConfigureServices and ConfigureContainer.
//
// The container method is bound by the orchestrator, once the builder type of
// the active factory is known.
func FromObject(instance any, environment string) (*Startup, error) {
	if instance == nil {
		return nil, errInvalidArgument("startup instance can't be nil")
	}

	s := new(Startup)

	if m, ok := FindMethod(instance, environmentNames("Configure%sServices", environment)...); ok {
		services, err := BindServices(m)
		if err != nil {
			return nil, err
		}

		s.services = services
	}

	if m, ok := FindMethod(instance, environmentNames("Configure%sContainer", environment)...); ok {
		s.containerMethod = m
	}

	return s, nil
}

// environmentNames returns the environment specific name first, then the
// generic one.
func environmentNames(format, environment string) []string {
	if environment == "" {
		return []string{fmt.Sprintf(format, "")}
	}

	return []string{fmt.Sprintf(format, environment), fmt.Sprintf(format, "")}
}

// DeclaredBuilderType is the builder type the startup was written against,
// nil when it doesn't declare one statically.
func (s *Startup) DeclaredBuilderType() reflect.Type { return s.builderType }

func (s *Startup) HasServices() bool { return s.services != nil }

func (s *Startup) HasContainer() bool { return s.container != nil || s.containerMethod != nil }
