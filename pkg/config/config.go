// Package config loads client configuration from ~/.scrollr/config.yaml,
// SCROLLR_* environment variables, and defaults, in ascending precedence.
package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the production Scrollr API.
const DefaultAPIURL = "https://api.myscrollr.relentnet.dev"

// Config is the resolved client configuration.
type Config struct {
	APIURL  string // Scrollr API base URL
	Token   string // Logto JWT access token
	Theme   string // "dark" or "light"
	APIAddr string // bind address for the local automation API

	baseDir string
}

// Load resolves configuration. A missing config file is not an error; a
// malformed one is.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, errors.Wrap(err, "resolve home directory")
	}
	base := filepath.Join(home, ".scrollr")

	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("theme", "dark")
	v.SetDefault("api_addr", "127.0.0.1:8414")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(base)
	if override := os.Getenv("SCROLLR_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.SetEnvPrefix("SCROLLR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	return &Config{
		APIURL:  v.GetString("api_url"),
		Token:   v.GetString("token"),
		Theme:   v.GetString("theme"),
		APIAddr: v.GetString("api_addr"),
		baseDir: base,
	}, nil
}

// CacheDir returns the channel cache directory, creating it if needed.
func (c *Config) CacheDir() (string, error) {
	dir := filepath.Join(c.baseDir, "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create cache directory")
	}
	return dir, nil
}
