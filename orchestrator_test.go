package hosting

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type probeFactory struct {
	builders  int
	providers int
	err       error
}

func (p *probeFactory) erased() ErasedContainerFactory {
	return Erase[*ServiceRegistry](FactoryFuncs[*ServiceRegistry]{
		Builder: func(r *ServiceRegistry) (*ServiceRegistry, error) {
			p.builders++
			return r, p.err
		},
		Provider: func(r *ServiceRegistry) (ServiceProvider, error) {
			p.providers++
			return NewProvider(r), nil
		},
	})
}

type greeter struct{ name string }

type reflectedStartup struct {
	services    int
	development int
	container   int
}

func (s *reflectedStartup) ConfigureServices(r *ServiceRegistry) {
	s.services++
	r.Add(Service(&greeter{name: "default"}))
}

func (s *reflectedStartup) ConfigureDevelopmentServices(r *ServiceRegistry) error {
	s.development++
	r.Add(Service(&greeter{name: "development"}))
	return nil
}

func (s *reflectedStartup) ConfigureContainer(r *ServiceRegistry) { s.container++ }

type anyContainerStartup struct{ calls int }

func (s *anyContainerStartup) ConfigureServices(*ServiceRegistry) { s.calls++ }
func (s *anyContainerStartup) ConfigureContainer(any)             { s.calls++ }

type OrchestratorTestSuite struct {
	suite.Suite
	probe    *probeFactory
	registry *ServiceRegistry
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.probe = new(probeFactory)
	s.registry = NewRegistry()
}

func (s *OrchestratorTestSuite) TestRoundTrip() {
	var configured int
	startup := NewStartup(
		WithServices(func(r *ServiceRegistry) error {
			r.Add(Service(&greeter{name: "hosting"}))
			return nil
		}),
		WithContainer(func(r *ServiceRegistry) error {
			configured++
			s.Same(s.registry, r)
			return nil
		}),
	)

	o := NewOrchestrator(startup, s.registry, s.probe.erased())
	s.Equal(StateCreated, o.State())

	provider, err := o.Build()
	s.Require().NoError(err)
	s.Equal(StateProviderCreated, o.State())
	s.Equal(1, s.probe.builders)
	s.Equal(1, s.probe.providers)
	s.Equal(1, configured)

	g, ok := Resolve[*greeter](provider)
	s.True(ok)
	s.Equal("hosting", g.name)
}

func (s *OrchestratorTestSuite) TestDefaults() {
	provider, err := NewOrchestrator(nil, nil, nil).Build()
	s.Require().NoError(err)
	s.True(provider.Has((*ServiceProvider)(nil)))
}

func (s *OrchestratorTestSuite) TestIncompatibleFactory() {
	var services int
	startup := NewStartup(
		WithServices(func(*ServiceRegistry) error { services++; return nil }),
		WithContainer(func(map[string]any) error { return nil }),
	)

	o := NewOrchestrator(startup, s.registry, s.probe.erased())
	_, err := o.Build()
	s.True(IsIncompatibleContainerFactory(err))
	s.Equal(0, services)
	s.Equal(0, s.probe.builders)
	s.Equal(StateCreated, o.State())
}

func (s *OrchestratorTestSuite) TestInterfaceCompatible() {
	var configured int
	startup := NewStartup(WithContainer(func(b builderShape) error {
		configured++
		return nil
	}))

	_, err := NewOrchestrator(startup, s.registry, s.probe.erased()).Build()
	s.Require().NoError(err)
	s.Equal(1, configured)
}

func (s *OrchestratorTestSuite) TestShortCircuit() {
	var configured int
	custom := NewProvider(NewRegistry())
	startup := NewStartup(
		WithServiceProvider(func(*ServiceRegistry) (ServiceProvider, error) { return custom, nil }),
		WithContainer(func(*ServiceRegistry) error { configured++; return nil }),
	)

	o := NewOrchestrator(startup, s.registry, s.probe.erased())
	provider, err := o.Build()
	s.Require().NoError(err)
	s.Same(custom, provider)
	s.Equal(StateProviderCreated, o.State())
	s.Equal(0, s.probe.builders)
	s.Equal(0, s.probe.providers)
	s.Equal(0, configured)
}

func (s *OrchestratorTestSuite) TestAlreadyBuilt() {
	o := NewOrchestrator(NewStartup(), s.registry, s.probe.erased())
	_, err := o.Build()
	s.Require().NoError(err)

	_, err = o.Build()
	s.True(IsAlreadyBuilt(err))
	s.Equal(1, s.probe.builders)
}

func (s *OrchestratorTestSuite) TestAlreadyBuiltAfterFailure() {
	failure := errors.New("services failed")
	o := NewOrchestrator(NewStartup(WithServices(func(*ServiceRegistry) error { return failure })), s.registry, s.probe.erased())

	_, err := o.Build()
	s.Same(failure, err)

	_, err = o.Build()
	s.True(IsAlreadyBuilt(err))
}

func (s *OrchestratorTestSuite) TestErrorsPropagateUnchanged() {
	failure := errors.New("boom")

	s.Run("services", func() {
		o := NewOrchestrator(NewStartup(WithServices(func(*ServiceRegistry) error { return failure })), NewRegistry(), nil)
		_, err := o.Build()
		s.Same(failure, err)
		s.Equal(StateCreated, o.State())
	})

	s.Run("builder", func() {
		probe := &probeFactory{err: failure}
		o := NewOrchestrator(NewStartup(), NewRegistry(), probe.erased())
		_, err := o.Build()
		s.Same(failure, err)
		s.Equal(StateServicesConfigured, o.State())
	})

	s.Run("container", func() {
		o := NewOrchestrator(NewStartup(WithContainer(func(*ServiceRegistry) error { return failure })), NewRegistry(), nil)
		_, err := o.Build()
		s.Same(failure, err)
		s.Equal(StateBuilderCreated, o.State())
	})
}

func (s *OrchestratorTestSuite) TestFromObject() {
	startup := new(reflectedStartup)
	core, err := FromObject(startup, "")
	s.Require().NoError(err)
	s.True(core.HasServices())
	s.True(core.HasContainer())
	s.Nil(core.DeclaredBuilderType())

	provider, err := NewOrchestrator(core, s.registry, s.probe.erased()).Build()
	s.Require().NoError(err)
	s.Equal(1, startup.services)
	s.Equal(0, startup.development)
	s.Equal(1, startup.container)
	s.Equal("default", MustResolve[*greeter](provider).name)
}

func (s *OrchestratorTestSuite) TestFromObjectEnvironment() {
	startup := new(reflectedStartup)
	core, err := FromObject(startup, "Development")
	s.Require().NoError(err)

	provider, err := NewOrchestrator(core, s.registry, nil).Build()
	s.Require().NoError(err)
	s.Equal(0, startup.services)
	s.Equal(1, startup.development)
	s.Equal(1, startup.container)
	s.Equal("development", MustResolve[*greeter](provider).name)
}

func (s *OrchestratorTestSuite) TestFromObjectContainerMismatch() {
	startup := new(anyContainerStartup)
	core, err := FromObject(startup, "")
	s.Require().NoError(err)

	o := NewOrchestrator(core, s.registry, s.probe.erased())
	_, err = o.Build()
	s.True(IsSignatureMismatch(err))
	s.Equal(0, startup.calls)
	s.Equal(0, s.probe.builders)
	s.Equal(0, s.registry.Len())
}

func (s *OrchestratorTestSuite) TestFromObjectServicesMismatch() {
	_, err := FromObject(new(servicesShapesStartup), "")
	s.True(IsSignatureMismatch(err))

	_, err = FromObject(nil, "")
	s.True(errors.Is(err, &Error{Code: ErrCodeInvalidArgument}))
}

type servicesShapesStartup struct{}

func (servicesShapesStartup) ConfigureServices(*ServiceRegistry) int { return 0 }

func TestOrchestrator(t *testing.T) { suite.Run(t, new(OrchestratorTestSuite)) }

func TestCompatible(t *testing.T) {
	cases := []struct {
		name     string
		declared reflect.Type
		actual   reflect.Type
		expected bool
	}{
		{"identical", TypeOf[*ServiceRegistry](), TypeOf[*ServiceRegistry](), true},
		{"interface", TypeOf[builderShape](), TypeOf[*ServiceRegistry](), true},
		{"any", TypeOf[any](), TypeOf[*ServiceRegistry](), true},
		{"unrelated", TypeOf[map[string]any](), TypeOf[*ServiceRegistry](), false},
		{"concrete declared", TypeOf[*ServiceRegistry](), TypeOf[builderShape](), false},
		{"nil", nil, TypeOf[*ServiceRegistry](), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compatible(tc.declared, tc.actual))
		})
	}
}
