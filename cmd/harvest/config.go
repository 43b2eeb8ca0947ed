package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
)

// newConfigResolver returns a Kong resolver backed by viper. It reads
// harvest.yaml from the first of dirs that has one, and HARVEST_*
// environment variables, with dashes in flag names mapped to underscores.
// A missing config file is not an error.
func newConfigResolver(dirs ...string) (kong.Resolver, error) {
	v := viper.New()
	v.SetConfigName("harvest")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if flag.Name == "help" || !v.IsSet(flag.Name) {
			return nil, nil
		}
		return v.GetString(flag.Name), nil
	}), nil
}
