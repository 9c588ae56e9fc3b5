package config

import (
	"github.com/mitchellh/mapstructure"
)

// EngineAPIKeyEnv names the environment variable whose value overrides any
// engineKey written in the config file. Load reads it once and threads it
// through Options; nothing below the loader touches the environment.
const EngineAPIKeyEnv = "ENGINE_API_KEY"

// SchemaDependency is a named source of GraphQL type information. A terminal
// dependency gets its types from a schema file, a client-side SDL file, or
// endpoint introspection. A dependency with Extends layers additional types
// on top of the named base instead.
type SchemaDependency struct {
	SchemaFilePath string          `yaml:"schema,omitempty" json:"schema,omitempty" mapstructure:"schema"`
	Endpoint       *EndpointConfig `yaml:"endpoint,omitempty" json:"endpoint,omitempty" mapstructure:"-"`
	EngineKey      string          `yaml:"engineKey,omitempty" json:"engineKey,omitempty" mapstructure:"engineKey"`
	Extends        string          `yaml:"extends,omitempty" json:"extends,omitempty" mapstructure:"extends"`
	ClientSide     bool            `yaml:"clientSide,omitempty" json:"clientSide,omitempty" mapstructure:"clientSide"`
}

// normalizeSchemaDependency canonicalizes one raw schema dependency.
// The credential override (Options.EngineKey) wins over a key written in the
// config; a dependency that ends up with any engine key never gets a default
// endpoint URL, since the key implies the schema comes from the registry.
func normalizeSchemaDependency(raw map[string]interface{}, opts Options, defaultEndpoint bool) *SchemaDependency {
	dep := &SchemaDependency{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dep,
		WeaklyTypedInput: true,
	})
	if err == nil {
		_ = decoder.Decode(raw)
	}

	if opts.EngineKey != "" {
		dep.EngineKey = opts.EngineKey
	}
	dep.Endpoint = normalizeEndpoint(raw["endpoint"], defaultEndpoint && dep.EngineKey == "")

	return dep
}
