// Package config wires the viper configuration engine: file lookup, environment bindings and factory defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/where"
)

// EnvKeyReplacer normalizes dotted configuration keys into environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, binds environment variables and reads the TOML config file when present.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
