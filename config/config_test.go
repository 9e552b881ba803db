package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var hostingVariables = []string{
	"HOSTING_APPLICATION",
	"HOSTING_ENVIRONMENT",
	"HOSTING_SERVER",
	"HOSTING_WEBROOT",
	"HOSTING_CONTENTROOT",
	"HOSTING_DETAILED_ERRORS",
	"HOSTING_CAPTURE_STARTUP_ERRORS",
	"HOSTING_SHUTDOWN_TIMEOUT",
	legacyEnvironmentKey,
}

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()

	for _, key := range hostingVariables {
		value, ok := os.LookupEnv(key)
		s.Require().NoError(os.Unsetenv(key))

		key := key
		s.T().Cleanup(func() {
			if ok {
				_ = os.Setenv(key, value)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

func (s *ConfigTestSuite) TestDefault() {
	o := Default()
	s.Equal(Production, o.Environment)
	s.Equal(DefaultServer, o.Server)
	s.Equal(DefaultShutdownTimeout, o.ShutdownTimeout)
	s.NotEmpty(o.ContentRoot)
	s.False(bool(o.DetailedErrors))
}

func (s *ConfigTestSuite) TestLoadEnvironment() {
	s.T().Setenv("HOSTING_APPLICATION", "shop")
	s.T().Setenv("HOSTING_ENVIRONMENT", Development)
	s.T().Setenv("HOSTING_SERVER", ":8080")
	s.T().Setenv("HOSTING_DETAILED_ERRORS", "true")
	s.T().Setenv("HOSTING_SHUTDOWN_TIMEOUT", "10s")

	o, err := Load(filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)
	s.Equal("shop", o.Application)
	s.Equal(Development, o.Environment)
	s.Equal(":8080", o.Server)
	s.True(bool(o.DetailedErrors))
	s.Equal(10*time.Second, o.ShutdownTimeout)
}

func (s *ConfigTestSuite) TestLoadNothingSet() {
	o, err := Load(filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)
	s.Equal(Production, o.Environment)
	s.Equal(DefaultServer, o.Server)
}

func (s *ConfigTestSuite) TestLoadDotEnv() {
	path := s.write(".env", "HOSTING_SERVER=:7000\nHOSTING_CAPTURE_STARTUP_ERRORS=true\n")
	s.T().Setenv("HOSTING_ENVIRONMENT", Staging)

	o, err := Load(path)
	s.Require().NoError(err)
	s.Equal(":7000", o.Server)
	s.Equal(Staging, o.Environment)
	s.True(bool(o.CaptureStartupErrors))
}

func (s *ConfigTestSuite) TestProcessEnvironmentWinsOverDotEnv() {
	path := s.write(".env", "HOSTING_SERVER=:7000\n")
	s.T().Setenv("HOSTING_SERVER", ":9000")

	o, err := Load(path)
	s.Require().NoError(err)
	s.Equal(":9000", o.Server)
}

func (s *ConfigTestSuite) TestLegacyEnvironment() {
	s.T().Setenv(legacyEnvironmentKey, Development)

	o, err := Load(filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)
	s.Equal(Development, o.Environment)

	s.T().Setenv("HOSTING_ENVIRONMENT", Staging)

	o, err = Load(filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)
	s.Equal(Staging, o.Environment)
}

func (s *ConfigTestSuite) TestLoadFile() {
	path := s.write("hosting.yaml", `
application: shop
environment: Staging
server: ":6000"
webroot: public
detailedErrors: true
shutdownTimeout: 2s
`)
	s.T().Setenv("HOSTING_SERVER", ":9000")

	o, err := LoadFile(path, filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)
	s.Equal("shop", o.Application)
	s.Equal(Staging, o.Environment)
	s.Equal(":9000", o.Server)
	s.Equal("public", o.WebRoot)
	s.True(bool(o.DetailedErrors))
	s.Equal(2*time.Second, o.ShutdownTimeout)
}

func (s *ConfigTestSuite) TestLoadFileErrors() {
	_, err := LoadFile(filepath.Join(s.dir, "missing.yaml"))
	s.ErrorIs(err, os.ErrNotExist)

	_, err = LoadFile(s.write("broken.yaml", "server: [\n"))
	s.Error(err)
}

func (s *ConfigTestSuite) TestFlagVariables() {
	s.T().Setenv("HOSTING_DETAILED_ERRORS", "t")
	s.T().Setenv("HOSTING_CAPTURE_STARTUP_ERRORS", "1")

	o, err := Load(filepath.Join(s.dir, "missing.env"))
	s.Require().NoError(err)
	s.False(bool(o.DetailedErrors))
	s.True(bool(o.CaptureStartupErrors))

	s.Require().NoError(o.Set(DetailedErrorsKey, "t"))
	s.False(bool(o.DetailedErrors))
}

func (s *ConfigTestSuite) TestInvalidVariable() {
	s.T().Setenv("HOSTING_SHUTDOWN_TIMEOUT", "soon")

	_, err := Load(filepath.Join(s.dir, "missing.env"))
	s.Error(err)
}

func TestConfig(t *testing.T) { suite.Run(t, new(ConfigTestSuite)) }

func TestOptions_Set(t *testing.T) {
	o := new(Options)

	require.NoError(t, o.Set("APPLICATION", "shop"))
	require.NoError(t, o.Set(EnvironmentKey, Development))
	require.NoError(t, o.Set("detailederrors", "1"))
	require.NoError(t, o.Set(CaptureStartupErrorsKey, "TRUE"))
	require.NoError(t, o.Set(ShutdownTimeoutKey, "1m"))

	assert.Equal(t, "shop", o.Application)
	assert.Equal(t, Development, o.Environment)
	assert.True(t, bool(o.DetailedErrors))
	assert.True(t, bool(o.CaptureStartupErrors))
	assert.Equal(t, time.Minute, o.ShutdownTimeout)

	assert.Error(t, o.Set(ShutdownTimeoutKey, "later"))
	assert.Error(t, o.Set("unknown", "value"))
}

func TestFromMap(t *testing.T) {
	o, err := FromMap(map[string]string{ServerKey: ":1234", WebRootKey: "static"})
	require.NoError(t, err)
	assert.Equal(t, ":1234", o.Server)
	assert.Equal(t, "static", o.WebRoot)
	assert.Equal(t, Production, o.Environment)

	_, err = FromMap(map[string]string{"nope": ""})
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for value, expected := range map[string]bool{
		"true":  true,
		"True":  true,
		" 1 ":   true,
		"false": false,
		"0":     false,
		"yes":   false,
		"":      false,
	} {
		assert.Equal(t, expected, ParseBool(value), value)
	}
}
