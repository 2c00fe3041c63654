// Package format runs goimports over generated files.
package format

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no config file is named.
const DefaultConfigPath = ".gqlclient-fmt.yaml"

// Config mirrors the goimports options.
type Config struct {
	// FormatOnly skips import fixing and only formats.
	FormatOnly bool `yaml:"formatOnly"`
	TabWidth   int  `yaml:"tabWidth"`
	// LocalPrefix groups imports with this prefix after third party ones.
	LocalPrefix string `yaml:"localPrefix"`
	Comments    bool   `yaml:"comments"`
}

func DefaultConfig() Config {
	return Config{FormatOnly: true, TabWidth: 8, Comments: true}
}

// LoadConfig reads a YAML config from path, starting from DefaultConfig.
// An empty path means DefaultConfigPath, which may be absent.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	optional := path == ""
	if optional {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("format: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("format: parse %s: %w", path, err)
	}
	if cfg.TabWidth <= 0 {
		return cfg, fmt.Errorf("format: %s: tabWidth must be positive", path)
	}
	return cfg, nil
}

// imports.LocalPrefix is package state.
var localPrefixMu sync.Mutex

// Source formats src as the file filename would be formatted by goimports.
func Source(filename string, src []byte, cfg Config) ([]byte, error) {
	localPrefixMu.Lock()
	defer localPrefixMu.Unlock()

	prev := imports.LocalPrefix
	imports.LocalPrefix = cfg.LocalPrefix
	defer func() { imports.LocalPrefix = prev }()

	out, err := imports.Process(filename, src, &imports.Options{
		FormatOnly: cfg.FormatOnly,
		Comments:   cfg.Comments,
		TabIndent:  true,
		TabWidth:   cfg.TabWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("format: %s: %w", filename, err)
	}
	return out, nil
}
