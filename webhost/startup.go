package webhost

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/puzpuzpuz/xsync"

	"github.com/Sanchous98/go-hosting"
)

// ConfigureFunc sets up the request pipeline.
type ConfigureFunc func(*AppBuilder) error

// Startup adds the request pipeline configuration to the service and
// container configuration of hosting.Startup.
type Startup struct {
	*hosting.Startup
	Configure ConfigureFunc
}

// NewStartup composes a startup from delegates.
func NewStartup(configure ConfigureFunc, opts ...hosting.StartupOption) *Startup {
	return &Startup{Startup: hosting.NewStartup(opts...), Configure: configure}
}

var configureSignature = hosting.Signature{
	Params:   [][]reflect.Type{{hosting.TypeOf[*AppBuilder]()}},
	Results:  [][]reflect.Type{{}, {hosting.TypeOf[error]()}},
	Expected: "func(*webhost.AppBuilder) or func(*webhost.AppBuilder) error",
}

// LoadStartup discovers the configuration methods of instance for the given
// environment. Configure<Environment> is preferred over Configure, which is
// required.
func LoadStartup(instance any, environment string) (*Startup, error) {
	if s, ok := instance.(*Startup); ok {
		return s, nil
	}

	core, err := hosting.FromObject(instance, environment)
	if err != nil {
		return nil, err
	}

	names := []string{"Configure" + environment, "Configure"}
	if environment == "" {
		names = names[1:]
	}

	m, ok := hosting.FindMethod(instance, names...)
	if !ok {
		return nil, &hosting.Error{
			Code:    hosting.ErrCodeSignatureMismatch,
			Message: fmt.Sprintf("%T has no Configure method of shape %s", instance, configureSignature),
		}
	}

	if err = m.Match(configureSignature); err != nil {
		return nil, err
	}

	return &Startup{
		Startup: core,
		Configure: func(app *AppBuilder) error {
			if out := m.Call(app); len(out) == 1 && !out[0].IsNil() {
				return out[0].Interface().(error)
			}

			return nil
		},
	}, nil
}

var startups = xsync.NewMapOf[func() any]()

// RegisterStartup makes a startup loadable by name, usually from init.
// newStartup returns either a *Startup or an object LoadStartup understands.
func RegisterStartup(name string, newStartup func() any) {
	if newStartup == nil {
		panic("webhost: RegisterStartup startup constructor is nil")
	}

	if _, loaded := startups.LoadOrStore(name, newStartup); loaded {
		panic("webhost: RegisterStartup called twice for " + name)
	}
}

// Startups lists the registered startup names.
func Startups() []string {
	var names []string
	startups.Range(func(name string, _ func() any) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)

	return names
}

func lookupStartup(name string) (any, error) {
	newStartup, ok := startups.Load(name)
	if !ok {
		return nil, hosting.ErrStartupNotFound(name)
	}

	return newStartup(), nil
}
