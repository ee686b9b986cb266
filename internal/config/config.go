// Package config loads the runner configuration from flags, HEROES_*
// environment variables and an optional heroes.yaml, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DefaultURL points at the database the scripts were written against.
// The password is deliberately absent; pass it in the URL via flag or env.
const DefaultURL = "mysql+pymysql://root@localhost:3306/test"

type Config struct {
	Database Database `mapstructure:"database"`
	Log      Log      `mapstructure:"log"`
	Output   Output   `mapstructure:"output"`
	Query    Query    `mapstructure:"query"`
}

type Database struct {
	URL string `mapstructure:"url"`
}

type Log struct {
	Level   string `mapstructure:"level"`
	Queries bool   `mapstructure:"queries"`
}

type Output struct {
	Format string `mapstructure:"format"`
}

type Query struct {
	IDs    []int `mapstructure:"ids"`
	Limit  int   `mapstructure:"limit"`
	Offset int   `mapstructure:"offset"`
}

var defaults = map[string]any{
	"database.url":  DefaultURL,
	"log.level":     "info",
	"log.queries":   false,
	"output.format": "text",
	"query.ids":     []int{31, 32},
	"query.limit":   0,
	"query.offset":  0,
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"url":       "database.url",
	"log-level": "log.level",
	"debug":     "log.queries",
	"format":    "output.format",
	"ids":       "query.ids",
	"limit":     "query.limit",
	"offset":    "query.offset",
}

// Load builds a Config. file, when non-empty, names an explicit config file
// that must exist; otherwise heroes.yaml is looked up in the user config
// directory and the working directory and is optional.
func Load(cmd *cobra.Command, file string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("heroes")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "heroes"))
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("config: read: %w", err)
		}
	}

	v.SetEnvPrefix("heroes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for name, key := range flagKeys {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return c, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("config: decode: %w", err)
	}
	return c, nil
}
