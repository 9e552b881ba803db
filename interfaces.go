package hosting

import (
	"context"
)

// ServiceProvider is the finished, queryable container
type ServiceProvider interface {
	// Has checks whether the service of passed type exists
	Has(any) bool
	// Get returns service from container, nil if it is not registered
	Get(any) any
	// GetByTag returns tagged services in registration order
	GetByTag(string) []any
	// All return all registered services
	All() []any
}

// Destroyable is a provider which owns the lifetime of the services it built
type Destroyable interface {
	Destroy()
}

// Constructable is a service that has special method that initializes it
type Constructable interface {
	Constructor()
}

// Destructible is a service that has special method that destructs it
type Destructible interface {
	Destructor()
}

// Launchable is a service the host runs in background for the lifetime of the application
type Launchable interface {
	Launch(context.Context)
}

// Stoppable is a service the host stops on shutdown
type Stoppable interface {
	Shutdown(context.Context)
}
