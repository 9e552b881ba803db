package hosting

import (
	"fmt"
	"reflect"
)

type Lifetime uint8

const (
	LifetimeSingleton Lifetime = iota
	LifetimeTransient
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeSingleton:
		return "singleton"
	case LifetimeTransient:
		return "transient"
	default:
		return fmt.Sprintf("lifetime(%d)", l)
	}
}

// ServiceDescriptor is a single registration. Either Factory or Instance is set.
type ServiceDescriptor struct {
	ServiceType reflect.Type
	Aliases     []reflect.Type
	Lifetime    Lifetime
	Factory     func(ServiceProvider) any
	Instance    any
	Tags        []string

	autowire bool
}

func (d *ServiceDescriptor) setType(t reflect.Type) {
	if d.ServiceType == nil {
		d.ServiceType = t
		return
	}

	d.Aliases = append(d.Aliases, t)
}

// TypeOf reports whether the descriptor is resolvable by the given type or value.
func (d *ServiceDescriptor) TypeOf(serviceType any) bool {
	id := valueTypeId(serviceType)

	for _, t := range d.ids() {
		if t == id {
			return true
		}
	}

	return false
}

func (d *ServiceDescriptor) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

func (d *ServiceDescriptor) String() string {
	if d.ServiceType == nil {
		return "<untyped>"
	}

	return fmt.Sprintf("%s (%s)", d.ServiceType, d.Lifetime)
}

func (d *ServiceDescriptor) ids() []TypeId {
	ids := make([]TypeId, 0, 1+len(d.Aliases))
	ids = append(ids, valueTypeId(d.ServiceType))

	for _, alias := range d.Aliases {
		ids = append(ids, valueTypeId(alias))
	}

	return ids
}

func (d *ServiceDescriptor) clone() *ServiceDescriptor {
	c := *d
	c.Aliases = append([]reflect.Type(nil), d.Aliases...)
	c.Tags = append([]string(nil), d.Tags...)

	return &c
}

func (d *ServiceDescriptor) validate() {
	if d.ServiceType == nil {
		panic("service descriptor has no service type")
	}

	if d.Factory == nil && d.Instance == nil {
		panic(fmt.Sprintf("service %s has neither factory nor instance", d.ServiceType))
	}
}
