package webhost

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Sanchous98/go-hosting"
	"github.com/Sanchous98/go-hosting/config"
)

// Builder assembles an Application: hosting services, the startup and the
// container factory it is built with.
type Builder struct {
	options     *config.Options
	settings    [][2]string
	services    []func(*hosting.ServiceRegistry)
	environment string
	webRoot     string
	server      Server
	logger      logrus.FieldLogger
	factory     hosting.ErasedContainerFactory

	// Only one of these should be set, but they are used in priority
	startup         *Startup
	startupInstance any
	startupName     string
}

func NewBuilder() *Builder { return new(Builder) }

// UseOptions replaces the options, config.Default() otherwise.
func (b *Builder) UseOptions(options *config.Options) *Builder {
	b.options = options
	return b
}

// UseSetting overrides a single option, see config.Options.Set.
func (b *Builder) UseSetting(key, value string) *Builder {
	b.settings = append(b.settings, [2]string{key, value})
	return b
}

// UseServices adds hosting services, registered before the startup's own.
func (b *Builder) UseServices(configure func(*hosting.ServiceRegistry)) *Builder {
	b.services = append(b.services, configure)
	return b
}

func (b *Builder) UseEnvironment(environment string) *Builder {
	b.environment = environment
	return b
}

func (b *Builder) UseWebRoot(webRoot string) *Builder {
	b.webRoot = webRoot
	return b
}

func (b *Builder) UseServer(server Server) *Builder {
	b.server = server
	return b
}

func (b *Builder) UseLogger(logger logrus.FieldLogger) *Builder {
	b.logger = logger
	return b
}

// UseContainerFactory swaps the container technology, hosting.Erase(hosting.DefaultFactory{}) otherwise.
func (b *Builder) UseContainerFactory(factory hosting.ErasedContainerFactory) *Builder {
	b.factory = factory
	return b
}

// UseStartup uses an object which methods are discovered with LoadStartup.
func (b *Builder) UseStartup(instance any) *Builder {
	b.startupInstance = instance
	return b
}

// UseStartupName uses a startup registered with RegisterStartup.
func (b *Builder) UseStartupName(name string) *Builder {
	b.startupName = name
	return b
}

func (b *Builder) UseStartupFuncs(configure ConfigureFunc, opts ...hosting.StartupOption) *Builder {
	b.startup = NewStartup(configure, opts...)
	return b
}

// Build runs the startup. When the startup fails and the options capture
// startup errors, the returned application answers every request with an
// error page instead.
func (b *Builder) Build() (*Application, error) {
	options, err := b.buildOptions()
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	server := b.server
	if server == nil {
		server = NewServer(options.Server)
	}

	app := &Application{
		options:  options,
		env:      newEnvironment(options),
		lifetime: new(Lifetime),
		logger:   logger,
		server:   server,
	}

	registry := b.hostingServices(app)

	if app.services, app.handler, err = b.runStartup(options, registry); err != nil {
		logger.WithError(err).Error("application startup failed")

		if !options.CaptureStartupErrors {
			return nil, err
		}

		app.services = hosting.NewProvider(registry)
		app.handler = startupErrorHandler(err, bool(options.DetailedErrors))
	}

	return app, nil
}

func (b *Builder) buildOptions() (*config.Options, error) {
	options := config.Default()
	if b.options != nil {
		copied := *b.options
		options = &copied
	}

	for _, setting := range b.settings {
		if err := options.Set(setting[0], setting[1]); err != nil {
			return nil, err
		}
	}

	if b.environment != "" {
		options.Environment = b.environment
	}

	if b.webRoot != "" {
		options.WebRoot = b.webRoot
	}

	return options, nil
}

func (b *Builder) hostingServices(app *Application) *hosting.ServiceRegistry {
	registry := hosting.NewRegistry()
	registry.Add(hosting.Service(app.env))
	registry.Add(hosting.Service(app.options))
	registry.Add(hosting.Service(app.lifetime))
	registry.Add(hosting.Service[logrus.FieldLogger](app.logger))

	for _, configure := range b.services {
		configure(registry)
	}

	return registry
}

func (b *Builder) runStartup(options *config.Options, registry *hosting.ServiceRegistry) (hosting.ServiceProvider, http.Handler, error) {
	startup, err := b.loadStartup(options)
	if err != nil {
		return nil, nil, err
	}

	core := startup.Startup
	if core == nil {
		core = hosting.NewStartup()
	}

	factory := b.factory
	if factory == nil {
		factory = hosting.Erase[*hosting.ServiceRegistry](hosting.DefaultFactory{})
	}

	services, err := hosting.NewOrchestrator(core, registry, factory).Build()
	if err != nil {
		return nil, nil, err
	}

	app := newAppBuilder(services)
	app.Use(requestServices(services))

	if startup.Configure != nil {
		if err = startup.Configure(app); err != nil {
			return nil, nil, err
		}
	}

	return services, app.Handler(), nil
}

func (b *Builder) loadStartup(options *config.Options) (*Startup, error) {
	switch {
	case b.startup != nil:
		return b.startup, nil
	case b.startupInstance != nil:
		return LoadStartup(b.startupInstance, options.Environment)
	}

	name := b.startupName
	if name == "" {
		name = options.Application
	}

	if name == "" {
		return nil, fmt.Errorf("no startup configured: use UseStartup, UseStartupName or the %s setting", config.ApplicationKey)
	}

	instance, err := lookupStartup(name)
	if err != nil {
		return nil, err
	}

	return LoadStartup(instance, options.Environment)
}
