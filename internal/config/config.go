// Package config loads the settings of the annotate command from flags,
// environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	applicationName = "annotate"
	envPrefix       = "ANNOTATE"

	// DefaultHost is the nio instance used when no host is configured.
	DefaultHost = "http://127.0.0.1:8181"
	// DefaultAuth is the Basic credential used when none is configured.
	DefaultAuth = "Admin:Admin"
	// DefaultTimeout bounds each request to nio.
	DefaultTimeout = 30 * time.Second
)

// Flag names, also used as configuration keys.
const (
	FlagHost    = "host"
	FlagAuth    = "auth"
	FlagVerbose = "verbose"
	FlagNoColor = "no-color"
	FlagTimeout = "timeout"
	FlagConfig  = "config"
)

var (
	// ErrHostRequired is returned when the host resolves to an empty value.
	ErrHostRequired = errors.New("host is required")
	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// Config holds the settings of one invocation.
type Config struct {
	Host    string
	Auth    string // user:pass; empty sends no Authorization header
	Verbose bool
	NoColor bool
	Timeout time.Duration

	// File is the configuration file that was read, if any.
	File string
}

// BindFlags defines the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagHost, "H", DefaultHost, "nio host")
	fs.StringP(FlagAuth, "a", DefaultAuth, "basic auth credential (user:pass), empty to disable")
	fs.BoolP(FlagVerbose, "v", false, "print error details and debug logs")
	fs.Bool(FlagNoColor, false, "disable colored output")
	fs.Duration(FlagTimeout, DefaultTimeout, "timeout of each request to nio")
	fs.String(FlagConfig, "", "configuration file to use. Overrides the search path.")
}

// Load resolves the configuration. Changed flags win over ANNOTATE_*
// environment variables, which win over the configuration file, which wins
// over flag defaults. Without --config, annotate.yaml is looked up in
// $HOME/.annotate and the working directory; not finding it is fine.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString(FlagConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(applicationName)
		v.SetConfigType("yaml")
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := Config{
		Host:    strings.TrimSpace(v.GetString(FlagHost)),
		Auth:    v.GetString(FlagAuth),
		Verbose: v.GetBool(FlagVerbose),
		NoColor: v.GetBool(FlagNoColor),
		Timeout: v.GetDuration(FlagTimeout),
		File:    v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that cfg can be used to reach nio.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrHostRequired
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}
	return nil
}
