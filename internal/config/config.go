// Package config loads the formbind settings.
//
// Sources, highest precedence first: bound command-line flags, FORMBIND_*
// environment variables (FORMBIND_SERVER_ADDR, FORMBIND_STORE_DRIVER, ...),
// the configuration file, then the defaults below. Without an explicit file,
// formbind.yaml is searched in the working directory and in
// $HOME/.config/formbind.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FORMBIND"

type Config struct {
	Server  Server  `mapstructure:"server"`
	Store   Store   `mapstructure:"store"`
	Pages   Pages   `mapstructure:"pages"`
	Log     Log     `mapstructure:"log"`
	Binding Binding `mapstructure:"binding"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Store struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Seed   string `mapstructure:"seed"`
}

type Pages struct {
	TemplatesDir string `mapstructure:"templates_dir"`
	Reload       bool   `mapstructure:"reload"`
	Theme        string `mapstructure:"theme"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Binding struct {
	MaxIndex int `mapstructure:"max_index"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Server:  Server{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Store:   Store{Driver: "memory"},
		Pages:   Pages{Theme: "light"},
		Log:     Log{Level: "info", Format: "text"},
		Binding: Binding{MaxIndex: 1000},
	}
}

// Flag names bound onto configuration keys by BindFlags.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"store":         "store.driver",
	"dsn":           "store.dsn",
	"seed":          "store.seed",
	"templates-dir": "pages.templates_dir",
	"reload":        "pages.reload",
	"theme":         "pages.theme",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"max-index":     "binding.max_index",
}

// New returns a viper instance carrying the defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("store.seed", d.Store.Seed)
	v.SetDefault("pages.templates_dir", d.Pages.TemplatesDir)
	v.SetDefault("pages.reload", d.Pages.Reload)
	v.SetDefault("pages.theme", d.Pages.Theme)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("binding.max_index", d.Binding.MaxIndex)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag of fs whose name is known to its configuration
// key. Flags that are not present in fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration file, if any, and decodes the merged settings.
// An explicit file that cannot be read is an error; a missing default file is
// not.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("formbind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "formbind"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store.Driver) {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: store.driver must be memory or sqlite, got %q", c.Store.Driver)
	}
	if c.Binding.MaxIndex < 0 {
		return fmt.Errorf("config: binding.max_index must not be negative, got %d", c.Binding.MaxIndex)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}
