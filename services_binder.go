package hosting

import (
	"reflect"
)

// ConfigureServicesFunc configures the registry. A non-nil provider replaces
// the container the factory would have built.
type ConfigureServicesFunc func(*ServiceRegistry) (ServiceProvider, error)

var registryType = TypeOf[*ServiceRegistry]()

var servicesSignature = Signature{
	Params: [][]reflect.Type{
		{},
		{registryType},
	},
	Results: [][]reflect.Type{
		{},
		{errorType},
		{providerType},
		{providerType, errorType},
	},
	Expected: "func() or func(*hosting.ServiceRegistry), returning nothing, error, ServiceProvider or (ServiceProvider, error)",
}

// BindServices turns a configure-services method into a ConfigureServicesFunc.
func BindServices(b *MethodBinding) (ConfigureServicesFunc, error) {
	if err := b.Match(servicesSignature); err != nil {
		return nil, err
	}

	return func(registry *ServiceRegistry) (ServiceProvider, error) {
		if registry == nil {
			return nil, errInvalidArgument("registry can't be nil").WithMethod(b.String())
		}

		var out []reflect.Value
		if b.NumIn() == 1 {
			out = b.Call(registry)
		} else {
			out = b.Call()
		}

		return servicesResult(out)
	}, nil
}

func servicesResult(out []reflect.Value) (ServiceProvider, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type().AssignableTo(errorType) {
			return nil, asError(out[0])
		}

		return asProvider(out[0]), nil
	default:
		return asProvider(out[0]), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if isNil(v) {
		return nil
	}

	return v.Interface().(error)
}

func asProvider(v reflect.Value) ServiceProvider {
	if isNil(v) {
		return nil
	}

	return v.Interface().(ServiceProvider)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
