// Package config loads the options of the web host from a YAML hosting file,
// .env files and HOSTING_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	Development = "Development"
	Staging     = "Staging"
	Production  = "Production"

	// legacyEnvironmentKey is read when HOSTING_ENVIRONMENT is not set.
	legacyEnvironmentKey = "ENV"

	DefaultServer          = ":5000"
	DefaultShutdownTimeout = 5 * time.Second
)

// Options configure the web host.
type Options struct {
	// Application names the registered startup to run.
	Application          string        `yaml:"application" env:"HOSTING_APPLICATION"`
	Environment          string        `yaml:"environment" env:"HOSTING_ENVIRONMENT"`
	Server               string        `yaml:"server" env:"HOSTING_SERVER"`
	WebRoot              string        `yaml:"webroot" env:"HOSTING_WEBROOT"`
	ContentRoot          string        `yaml:"contentroot" env:"HOSTING_CONTENTROOT"`
	DetailedErrors       Flag          `yaml:"detailedErrors" env:"HOSTING_DETAILED_ERRORS"`
	CaptureStartupErrors Flag          `yaml:"captureStartupErrors" env:"HOSTING_CAPTURE_STARTUP_ERRORS"`
	ShutdownTimeout      time.Duration `yaml:"shutdownTimeout" env:"HOSTING_SHUTDOWN_TIMEOUT,strict"`
}

// Flag is a boolean setting read with ParseBool from the environment.
type Flag bool

// Decode implements envdecode.Decoder.
func (f *Flag) Decode(value string) error {
	*f = Flag(ParseBool(value))
	return nil
}

// Default returns options with every default applied.
func Default() *Options {
	o := new(Options)
	o.applyDefaults()

	return o
}

// Load reads .env files (".env" if none given, missing files are ignored)
// and decodes HOSTING_* variables. Variables already set in the process
// environment win over .env files.
func Load(envFiles ...string) (*Options, error) {
	o := new(Options)

	if err := o.loadEnv(envFiles...); err != nil {
		return nil, err
	}

	o.applyDefaults()

	return o, nil
}

// LoadFile parses a YAML hosting file, then lets the environment override it.
func LoadFile(path string, envFiles ...string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hosting file: %w", err)
	}

	o := new(Options)
	if err = yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("parse hosting file %s: %w", path, err)
	}

	if err = o.loadEnv(envFiles...); err != nil {
		return nil, err
	}

	o.applyDefaults()

	return o, nil
}

func (o *Options) loadEnv(envFiles ...string) error {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		// Non-fatal: .env may not exist in production
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	if err := envdecode.Decode(o); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode hosting environment: %w", err)
	}

	if o.Environment == "" {
		o.Environment = os.Getenv(legacyEnvironmentKey)
	}

	return nil
}

func (o *Options) applyDefaults() {
	if o.Environment == "" {
		o.Environment = Production
	}

	if o.Server == "" {
		o.Server = DefaultServer
	}

	if o.ContentRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			o.ContentRoot = wd
		}
	}

	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Keys accepted by Set, matching the YAML field names.
const (
	ApplicationKey          = "application"
	EnvironmentKey          = "environment"
	ServerKey               = "server"
	WebRootKey              = "webroot"
	ContentRootKey          = "contentroot"
	DetailedErrorsKey       = "detailedErrors"
	CaptureStartupErrorsKey = "captureStartupErrors"
	ShutdownTimeoutKey      = "shutdownTimeout"
)

// Set assigns a single setting by key. Keys are case-insensitive.
func (o *Options) Set(key, value string) error {
	switch {
	case strings.EqualFold(key, ApplicationKey):
		o.Application = value
	case strings.EqualFold(key, EnvironmentKey):
		o.Environment = value
	case strings.EqualFold(key, ServerKey):
		o.Server = value
	case strings.EqualFold(key, WebRootKey):
		o.WebRoot = value
	case strings.EqualFold(key, ContentRootKey):
		o.ContentRoot = value
	case strings.EqualFold(key, DetailedErrorsKey):
		o.DetailedErrors = Flag(ParseBool(value))
	case strings.EqualFold(key, CaptureStartupErrorsKey):
		o.CaptureStartupErrors = Flag(ParseBool(value))
	case strings.EqualFold(key, ShutdownTimeoutKey):
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		o.ShutdownTimeout = d
	default:
		return fmt.Errorf("unknown hosting setting %q", key)
	}

	return nil
}

// FromMap builds options from key/value settings, see Set.
func FromMap(settings map[string]string) (*Options, error) {
	o := new(Options)

	for key, value := range settings {
		if err := o.Set(key, value); err != nil {
			return nil, err
		}
	}

	o.applyDefaults()

	return o, nil
}

// ParseBool reads the flags of the hosting file format: "true" and "1" are
// true, case-insensitively; anything else is false.
func ParseBool(value string) bool {
	value = strings.TrimSpace(value)
	return strings.EqualFold(value, "true") || value == "1"
}
