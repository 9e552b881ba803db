package hosting

import (
	"fmt"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
)

// Container is the default ServiceProvider built from a ServiceRegistry.
type Container struct {
	compiled atomic.Bool

	entries []*entry
	index   *xsync.MapOf[string, *entry]
}

// NewProvider builds the default container from the registrations of r.
// The registry may be reused afterwards, the container keeps its own copy.
func NewProvider(r *ServiceRegistry) *Container {
	c := &Container{index: xsync.NewMapOf[*entry]()}

	// Self references. Is needed to inject ServiceProvider as a service
	self := newEntry(&ServiceDescriptor{ServiceType: providerType, Instance: c})
	self.Build(c, nil)
	c.index.Store(valueTypeId(providerType).key(), self)
	c.index.Store(valueTypeId((*Container)(nil)).key(), self)

	for _, d := range r.Descriptors() {
		e := newEntry(d.clone())
		c.entries = append(c.entries, e)

		for _, id := range d.ids() {
			c.index.Store(id.key(), e)
		}
	}

	return c
}

func (c *Container) Get(serviceType any) any {
	return c.resolve(valueTypeId(serviceType), nil)
}

func (c *Container) GetByTag(tag string) []any {
	return c.getByTag(tag, nil)
}

func (c *Container) Has(serviceType any) bool {
	return c.lookup(valueTypeId(serviceType)) != nil
}

func (c *Container) All() []any {
	return c.all(nil)
}

// Compile eagerly builds every singleton.
func (c *Container) Compile() {
	if c.compiled.CompareAndSwap(false, true) {
		for _, e := range c.entries {
			if e.descriptor.Lifetime == LifetimeSingleton {
				e.Build(c, nil)
			}
		}
	}
}

// Destroy calls destructors of built singletons in reverse registration order
// and forgets them.
func (c *Container) Destroy() {
	for i := len(c.entries) - 1; i >= 0; i-- {
		c.entries[i].Destroy()
	}

	c.compiled.Store(false)
}

func (c *Container) lookup(id TypeId) *entry {
	e, _ := c.index.Load(id.key())
	return e
}

func (c *Container) resolve(id TypeId, stack visitedStack[*entry]) any {
	if e := c.lookup(id); e != nil {
		return e.Build(c, stack)
	}

	return nil
}

func (c *Container) tagged(tag string) []*entry {
	var tagged []*entry

	for _, e := range c.entries {
		if e.descriptor.HasTag(tag) {
			tagged = append(tagged, e)
		}
	}

	return tagged
}

func (c *Container) getByTag(tag string, stack visitedStack[*entry]) []any {
	byTag := make([]any, 0)

	for _, e := range c.tagged(tag) {
		byTag = append(byTag, e.Build(c, stack))
	}

	return byTag
}

func (c *Container) all(stack visitedStack[*entry]) []any {
	all := make([]any, 0, len(c.entries))

	for _, e := range c.entries {
		all = append(all, e.Build(c, stack))
	}

	return all
}

// resolution is the view of the container handed to factories, carrying the
// chain of services currently being built.
type resolution struct {
	*Container
	stack visitedStack[*entry]
}

func (r *resolution) Get(serviceType any) any {
	return r.resolve(valueTypeId(serviceType), r.stack)
}

func (r *resolution) GetByTag(tag string) []any { return r.getByTag(tag, r.stack) }
func (r *resolution) All() []any                { return r.all(r.stack) }

// Resolve returns the service registered for T.
func Resolve[T any](p ServiceProvider) (T, bool) {
	service, ok := p.Get(TypeOf[T]()).(T)
	return service, ok
}

// MustResolve is like Resolve but panics when T is not registered.
func MustResolve[T any](p ServiceProvider) T {
	service, ok := Resolve[T](p)
	if !ok {
		panic(fmt.Sprintf("service %s is not registered", TypeOf[T]()))
	}

	return service
}
