package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachedev/cdev/internal/config"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := config.Load(config.Flags{Host: "cache01"}, viper.New())
	require.NoError(t, err)

	assert.Equal(t, "cache01", cfg.Host)
	assert.Equal(t, config.DefaultWebServerPort, cfg.WebServerPort)
	assert.Equal(t, "_SYSTEM", cfg.Username)
	assert.Equal(t, "SYS", cfg.Password)
	assert.Equal(t, "USER", cfg.Namespace)
}

func TestLoad_flagsBeatConfigFile(t *testing.T) {
	v := viper.New()
	v.Set("host", "from-file")
	v.Set("username", "filewriter")

	cfg, err := config.Load(config.Flags{Host: "from-flag", Username: "admin"}, v)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Host)
	assert.Equal(t, "admin", cfg.Username)
}

func TestLoad_configFileFallback(t *testing.T) {
	v := viper.New()
	v.Set("host", "cache02")
	v.Set("web_server_port", 8080)
	v.Set("namespace", "samples")

	cfg, err := config.Load(config.Flags{}, v)
	require.NoError(t, err)

	assert.Equal(t, "cache02", cfg.Host)
	assert.Equal(t, 8080, cfg.WebServerPort)
	assert.Equal(t, "SAMPLES", cfg.Namespace, "namespace is uppercased")
}

func TestLoad_instanceResolution(t *testing.T) {
	v := viper.New()
	v.Set("instances.dev.host", "devbox")
	v.Set("instances.dev.web_server_port", 57780)

	cfg, err := config.Load(config.Flags{Instance: "dev"}, v)
	require.NoError(t, err)

	assert.Equal(t, "devbox", cfg.Host)
	assert.Equal(t, 57780, cfg.WebServerPort)
}

func TestLoad_unknownInstance(t *testing.T) {
	_, err := config.Load(config.Flags{Instance: "missing"}, viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestLoad_instanceExcludesHost(t *testing.T) {
	v := viper.New()
	v.Set("instances.dev.host", "devbox")

	_, err := config.Load(config.Flags{Instance: "dev", Host: "other"}, v)
	require.Error(t, err)
}

func TestLoad_noHostAnywhere(t *testing.T) {
	_, err := config.Load(config.Flags{}, viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host")
}

func TestValidate_portRange(t *testing.T) {
	cfg := config.Config{
		Host:          "cache01",
		WebServerPort: 70000,
		Username:      "_SYSTEM",
		Password:      "SYS",
		Namespace:     "USER",
	}
	assert.Error(t, cfg.Validate())

	cfg.WebServerPort = 57772
	assert.NoError(t, cfg.Validate())
}
