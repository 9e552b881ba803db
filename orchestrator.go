package hosting

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

type State uint8

const (
	StateCreated State = iota
	StateServicesConfigured
	StateBuilderCreated
	StateContainerConfigured
	StateProviderCreated
)

var stateNames = [...]string{
	StateCreated:             "created",
	StateServicesConfigured:  "services configured",
	StateBuilderCreated:      "builder created",
	StateContainerConfigured: "container configured",
	StateProviderCreated:     "provider created",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("state(%d)", s)
}

// Orchestrator runs the build sequence of one startup exactly once:
// configure services, create the builder, configure the container, create
// the provider.
type Orchestrator struct {
	startup  *Startup
	registry *ServiceRegistry
	factory  ErasedContainerFactory

	state   State
	started atomic.Bool
}

func NewOrchestrator(startup *Startup, registry *ServiceRegistry, factory ErasedContainerFactory) *Orchestrator {
	if startup == nil {
		startup = NewStartup()
	}

	if registry == nil {
		registry = NewRegistry()
	}

	if factory == nil {
		factory = Erase[*ServiceRegistry](DefaultFactory{})
	}

	return &Orchestrator{startup: startup, registry: registry, factory: factory}
}

// State reports how far the sequence got.
func (o *Orchestrator) State() State { return o.state }

// Build runs the sequence and hands the provider over to the caller. Errors
// returned by the startup or the factory are returned as is. A second call
// fails with ErrCodeAlreadyBuilt.
func (o *Orchestrator) Build() (ServiceProvider, error) {
	if !o.started.CompareAndSwap(false, true) {
		return nil, errAlreadyBuilt()
	}

	configureContainer, err := o.bindContainer()
	if err != nil {
		return nil, err
	}

	if o.startup.services != nil {
		provider, err := o.startup.services(o.registry)
		if err != nil {
			return nil, err
		}

		if provider != nil {
			o.state = StateProviderCreated
			return provider, nil
		}
	}
	o.state = StateServicesConfigured

	builder, err := o.factory.CreateBuilder(o.registry)
	if err != nil {
		return nil, err
	}
	o.state = StateBuilderCreated

	if configureContainer != nil {
		if err = configureContainer(builder); err != nil {
			return nil, err
		}
	}
	o.state = StateContainerConfigured

	provider, err := o.factory.CreateProvider(builder)
	if err != nil {
		return nil, err
	}
	o.state = StateProviderCreated

	return provider, nil
}

// bindContainer checks the startup against the active factory before anything
// is mutated.
func (o *Orchestrator) bindContainer() (ConfigureContainerFunc, error) {
	if declared := o.startup.builderType; declared != nil && !Compatible(declared, o.factory.BuilderType()) {
		return nil, errIncompatibleFactory(declared.String(), o.factory.BuilderType().String())
	}

	if o.startup.containerMethod != nil {
		return BindContainer(o.startup.containerMethod, o.factory.BuilderType())
	}

	return o.startup.container, nil
}

// Compatible reports whether a startup written against declared can configure
// builders of type actual: the types are identical or declared is an
// interface actual implements.
func Compatible(declared, actual reflect.Type) bool {
	if declared == nil || actual == nil {
		return false
	}

	if declared == actual {
		return true
	}

	return declared.Kind() == reflect.Interface && actual.Implements(declared)
}
