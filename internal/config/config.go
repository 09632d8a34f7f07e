// Package config resolves connection parameters for the cdev CLI from
// command-line flags, the config file, and the environment, in that order.
package config

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// DefaultWebServerPort is the stock Caché web server port, used when no
// port is given anywhere.
const DefaultWebServerPort = 57772

// Config holds everything needed to construct a client.
type Config struct {
	Host          string
	WebServerPort int
	Username      string
	Password      string
	Namespace     string
}

// Flags carries values set explicitly on the command line. Zero-valued
// fields fall through to the config file, the environment, and finally the
// built-in defaults.
type Flags struct {
	Username      string
	Password      string
	Namespace     string
	Instance      string
	Host          string
	WebServerPort int
}

// Load merges flags with the viper-backed config file and environment and
// validates the result. A non-empty Instance resolves host and port through
// the config file's instances table and may not be combined with an
// explicit host or port (the CLI enforces the flag exclusion; Load enforces
// it for programmatic callers).
func Load(flags Flags, v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:          first(flags.Host, v.GetString("host")),
		WebServerPort: firstInt(flags.WebServerPort, v.GetInt("web_server_port")),
		Username:      first(flags.Username, v.GetString("username"), "_SYSTEM"),
		Password:      first(flags.Password, v.GetString("password"), "SYS"),
		Namespace:     first(flags.Namespace, v.GetString("namespace"), "USER"),
	}

	if flags.Instance != "" {
		if flags.Host != "" || flags.WebServerPort != 0 {
			return Config{}, fmt.Errorf("instance %q may not be combined with an explicit host or port", flags.Instance)
		}
		key := "instances." + flags.Instance
		if !v.IsSet(key) {
			return Config{}, fmt.Errorf("instance %q is not defined in the config file", flags.Instance)
		}
		cfg.Host = v.GetString(key + ".host")
		cfg.WebServerPort = v.GetInt(key + ".web_server_port")
	}

	if cfg.WebServerPort == 0 {
		cfg.WebServerPort = DefaultWebServerPort
	}
	// Namespace names are uppercase on the server.
	cfg.Namespace = strings.ToUpper(cfg.Namespace)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can address a server.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required.Error("no host given; use -H/--host, -I/--instance, or the config file")),
		validation.Field(&c.WebServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Namespace, validation.Required),
	)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
