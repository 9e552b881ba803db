package webhost

import (
	"path/filepath"
	"strings"

	"github.com/Sanchous98/go-hosting/config"
)

// Environment describes where the application runs. It is registered as a
// hosting service before the startup configures its own services.
type Environment struct {
	EnvironmentName string
	ApplicationName string
	WebRootPath     string
	ContentRootPath string
}

func newEnvironment(o *config.Options) *Environment {
	env := &Environment{
		EnvironmentName: o.Environment,
		ApplicationName: o.Application,
		ContentRootPath: o.ContentRoot,
	}

	switch {
	case o.WebRoot == "":
		env.WebRootPath = filepath.Join(o.ContentRoot, "wwwroot")
	case filepath.IsAbs(o.WebRoot):
		env.WebRootPath = o.WebRoot
	default:
		env.WebRootPath = filepath.Join(o.ContentRoot, o.WebRoot)
	}

	return env
}

func (e *Environment) IsEnvironment(name string) bool {
	return strings.EqualFold(e.EnvironmentName, name)
}

func (e *Environment) IsDevelopment() bool { return e.IsEnvironment(config.Development) }
func (e *Environment) IsStaging() bool     { return e.IsEnvironment(config.Staging) }
func (e *Environment) IsProduction() bool  { return e.IsEnvironment(config.Production) }
