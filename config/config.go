// Package config loads the optional ~/.zoxrc.yaml file that controls REPL
// prompt text, history file location, and which native modules to preload
// at startup. An absent file silently falls back to Defaults().
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config holds REPL/CLI preferences. Zero value is invalid; use Defaults
// or Load.
type Config struct {
	Prompt         string   `yaml:"prompt"`
	HistoryFile    string   `yaml:"historyFile"`
	PreloadModules []string `yaml:"preloadModules"`
}

// Defaults returns the built-in configuration used when no rc file is
// present.
func Defaults() Config {
	return Config{
		Prompt:      ">>> ",
		HistoryFile: filepath.Join(homeDir(), ".zox_history"),
	}
}

// Load reads ~/.zoxrc.yaml, falling back to Defaults() if the file is
// absent. Parse errors in a present file are returned rather than
// silently ignored, since a typo'd rc file is not the same as "no rc
// file".
func Load() (Config, error) {
	cfg := Defaults()
	path := filepath.Join(homeDir(), ".zoxrc.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
