package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config source files, in priority order. The standalone apollo.config.*
// forms win over an "apollo" section in package.json.
var configFileNames = []string{
	"apollo.config.yaml",
	"apollo.config.yml",
	"apollo.config.json",
	"package.json",
}

// Load locates the project's config source in dir and assembles it. When
// opts.EngineKey is unset it is seeded from ENGINE_API_KEY; this is the only
// place the environment is consulted.
func Load(dir string, opts Options) (*Config, error) {
	if opts.EngineKey == "" {
		opts.EngineKey = os.Getenv(EngineAPIKeyEnv)
	}

	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path, opts)
	}

	return nil, fmt.Errorf("no apollo config found in %s", dir)
}

// LoadFile parses a specific config source file and assembles it. The file's
// directory becomes the project root.
func LoadFile(path string, opts Options) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]interface{})
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if filepath.Base(path) == "package.json" {
			apollo, _ := raw["apollo"].(map[string]interface{})
			if apollo == nil {
				apollo = make(map[string]interface{})
			}
			raw = apollo
		}
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}

	dir := filepath.Dir(path)
	return New(raw, path, dir, opts), nil
}
