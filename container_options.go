package godi

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ProviderOptions configures building a Provider.
type ProviderOptions struct {
	// ValidateOnBuild instantiates every singleton while building, so
	// activation errors surface from Build instead of the first resolution.
	ValidateOnBuild bool `mapstructure:"validate_on_build"`

	// BuildTimeout bounds ValidateOnBuild. Zero means no timeout.
	BuildTimeout time.Duration `mapstructure:"build_timeout"`

	// LogLevel overrides the level of the collection logger for the
	// provider, e.g. "debug". Empty keeps the logger's level.
	LogLevel string `mapstructure:"log_level"`
}

// EnvPrefix prefixes the environment variables read by LoadProviderOptions,
// e.g. GODI_VALIDATE_ON_BUILD.
const EnvPrefix = "GODI"

// LoadProviderOptions reads ProviderOptions from v. Keys are
// validate_on_build, build_timeout (a duration such as "5s") and log_level,
// each overridable by its GODI_ environment variable. A nil v reads the
// environment only.
//
//	v := viper.New()
//	v.SetConfigFile("config.yaml")
//	_ = v.ReadInConfig()
//	options, err := godi.LoadProviderOptions(v.Sub("container"))
func LoadProviderOptions(v *viper.Viper) (*ProviderOptions, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("validate_on_build", false)
	v.SetDefault("build_timeout", time.Duration(0))
	v.SetDefault("log_level", "")

	options := &ProviderOptions{}
	if err := v.Unmarshal(options); err != nil {
		return nil, ValidationError{Cause: fmt.Errorf("invalid provider options: %w", err)}
	}

	if options.BuildTimeout < 0 {
		return nil, ValidationError{Cause: fmt.Errorf("invalid provider options: negative build_timeout %s", options.BuildTimeout)}
	}

	return options, nil
}
