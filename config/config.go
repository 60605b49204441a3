// Package config registers every setting with its default and wires viper to env vars and the config file.
package config

import (
	"errors"
	"strings"

	"github.com/imgscout/imgscout/constant"
	"github.com/imgscout/imgscout/filesystem"
	"github.com/imgscout/imgscout/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps dotted keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Setup loads defaults, binds IMGSCOUT_* env vars and reads imgscout.toml if present.
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
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}
