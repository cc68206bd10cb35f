// Package config loads the console settings: a .casier.yaml file when one
// exists, CASIER_* environment variables on top.
package config

import (
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the resolved console configuration.
type Config struct {
	APIBase         string
	RefreshInterval time.Duration
	LogPath         string
	StatePath       string
	Debug           bool
}

// Load reads .casier.yaml from the working directory or the home directory,
// then applies CASIER_* environment overrides. A missing file is fine; the
// defaults stand.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("api_base", "https://api-tonnas.synology.me:8443")
	v.SetDefault("refresh_interval", "5s")
	v.SetDefault("log_path", "~/.casier/console.log")
	v.SetDefault("state_path", "~/.casier/state")
	v.SetDefault("debug", false)

	v.SetConfigName(".casier") // .yaml is implicit
	v.SetEnvPrefix("CASIER")
	v.AutomaticEnv()

	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	logPath, err := expand(v.GetString("log_path"))
	if err != nil {
		return nil, err
	}
	statePath, err := expand(v.GetString("state_path"))
	if err != nil {
		return nil, err
	}

	interval := v.GetDuration("refresh_interval")
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Config{
		APIBase:         v.GetString("api_base"),
		RefreshInterval: interval,
		LogPath:         logPath,
		StatePath:       statePath,
		Debug:           v.GetBool("debug"),
	}, nil
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}
