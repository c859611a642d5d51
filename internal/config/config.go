package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvConfigPath     = "HUGO_CONFIG"
	DefaultConfigPath = "configs/config.yaml"
)

// ResolvePath picks the config file: the flag value, then $HUGO_CONFIG, then
// DefaultConfigPath.
func ResolvePath(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultConfigPath
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. found reports which one happened.
func LoadOrDefault(path string) (cfg *Config, found bool, err error) {
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		return Default(), false, nil
	}
	cfg, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Load reads path and its include files in order, later files overriding
// earlier ones, then applies defaults and validates.
func Load(path string) (*Config, error) {
	layers, err := readLayers(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	for _, l := range layers {
		if err := v.MergeConfigMap(l.settings); err != nil {
			return nil, fmt.Errorf("merging config file failed (%s): %w", l.file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	setKeys := make(keySet)
	markKeys("", v.AllSettings(), setKeys)
	cfg.applyDefaults(setKeys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type layer struct {
	file     string
	settings map[string]any
}

// readLayers returns path and everything it includes, depth first, every
// file listed after the files it includes.
func readLayers(path string) ([]layer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := includeWalker{done: map[string]bool{}, active: map[string]bool{}}
	if err := w.visit(abs); err != nil {
		return nil, err
	}
	return w.layers, nil
}

type includeWalker struct {
	done   map[string]bool
	active map[string]bool
	layers []layer
}

func (w *includeWalker) visit(path string) error {
	path = filepath.Clean(path)
	if w.active[path] {
		return fmt.Errorf("include cycle detected: %s", path)
	}
	if w.done[path] {
		return nil
	}
	w.active[path] = true

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	for _, inc := range v.GetStringSlice("include") {
		inc = strings.TrimSpace(inc)
		if inc == "" {
			continue
		}
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		if err := w.visit(inc); err != nil {
			return err
		}
	}

	delete(w.active, path)
	w.done[path] = true
	w.layers = append(w.layers, layer{file: path, settings: v.AllSettings()})
	return nil
}

// markKeys records the dotted path of every leaf in settings.
func markKeys(prefix string, settings map[string]any, dest keySet) {
	for k, val := range settings {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			markKeys(key, sub, dest)
			continue
		}
		dest.mark(key)
	}
}
