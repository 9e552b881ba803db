package webhost

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Sanchous98/go-hosting"
	"github.com/Sanchous98/go-hosting/config"
)

// Application is a built host: the application services and the request
// pipeline configured by the startup.
type Application struct {
	options  *config.Options
	env      *Environment
	lifetime *Lifetime
	logger   logrus.FieldLogger
	server   Server
	services hosting.ServiceProvider
	handler  http.Handler
}

func (a *Application) Name() string                      { return a.env.ApplicationName }
func (a *Application) Services() hosting.ServiceProvider { return a.services }
func (a *Application) Handler() http.Handler             { return a.handler }
func (a *Application) Environment() *Environment         { return a.env }
func (a *Application) Lifetime() *Lifetime               { return a.lifetime }
func (a *Application) Options() *config.Options          { return a.options }

// Run serves the application until ctx is done or the process is
// interrupted, then stops services and releases the container.
func (a *Application) Run(ctx context.Context) error {
	if c, ok := a.services.(interface{ Compile() }); ok {
		c.Compile()
	}

	var stop context.CancelFunc
	ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	all := a.services.All()

	for _, service := range all {
		if service, ok := service.(hosting.Launchable); ok {
			go a.launch(ctx, service)
		}
	}

	served := make(chan error, 1)
	go func() { served <- a.server.ListenAndServe(a.handler) }()

	a.logger.WithFields(logrus.Fields{
		"application": a.env.ApplicationName,
		"environment": a.env.EnvironmentName,
		"server":      a.options.Server,
	}).Info("application started")
	a.lifetime.fire(&a.lifetime.started, a)

	var err error
	select {
	case <-ctx.Done():
	case err = <-served:
		if err != nil {
			a.logger.WithError(err).Error("server stopped")
		}
	}

	a.lifetime.fire(&a.lifetime.stopping, a)
	err = a.shutdown(all, err)
	a.lifetime.fire(&a.lifetime.stopped, a)

	return err
}

func (a *Application) shutdown(all []any, err error) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.options.ShutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup

	for _, service := range all {
		if service, ok := service.(hosting.Stoppable); ok {
			wg.Add(1)
			go func(service hosting.Stoppable) {
				defer wg.Done()
				service.Shutdown(ctx)
			}(service)
		}
	}

	if serr := a.server.Shutdown(ctx); serr != nil && err == nil {
		err = serr
	}

	wg.Wait()

	if d, ok := a.services.(hosting.Destroyable); ok {
		d.Destroy()
	}

	a.logger.Info("application stopped")

	return err
}

func (a *Application) launch(ctx context.Context, service hosting.Launchable) {
	defer func() {
		if err := recover(); err != nil {
			a.logger.Errorln(err)

			if ctx.Err() == nil {
				go a.launch(ctx, service)
			}
		}
	}()

	service.Launch(ctx)
}
