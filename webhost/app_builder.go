package webhost

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sanchous98/go-hosting"
)

// AppBuilder is handed to the startup's Configure to set up the request
// pipeline on top of the built services.
type AppBuilder struct {
	services hosting.ServiceProvider
	router   chi.Router
}

func newAppBuilder(services hosting.ServiceProvider) *AppBuilder {
	return &AppBuilder{services: services, router: chi.NewRouter()}
}

func (b *AppBuilder) ApplicationServices() hosting.ServiceProvider { return b.services }

func (b *AppBuilder) Router() chi.Router { return b.router }

// Use appends middlewares. Like chi, middlewares must be added before routes.
func (b *AppBuilder) Use(middlewares ...func(http.Handler) http.Handler) {
	b.router.Use(middlewares...)
}

func (b *AppBuilder) Handler() http.Handler { return b.router }

type servicesKey struct{}

// requestServices exposes the application services to handlers, see
// RequestServices.
func requestServices(services hosting.ServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), servicesKey{}, services)))
		})
	}
}

// RequestServices returns the application services of the request, nil when
// the request did not go through an Application.
func RequestServices(r *http.Request) hosting.ServiceProvider {
	services, _ := r.Context().Value(servicesKey{}).(hosting.ServiceProvider)
	return services
}
