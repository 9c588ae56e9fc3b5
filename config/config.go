// Package config resolves a declarative Apollo project configuration into a
// canonical, fully materialized form: concrete schema objects, concrete
// document file lists, and the endpoint/credential information needed to talk
// to a running GraphQL service.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options carries the resolution flags and the credential override. The
// override is an explicit parameter so that normalization stays a pure
// function of its inputs; Load seeds it from ENGINE_API_KEY.
type Options struct {
	// DefaultEndpoint allows schemas without an explicit endpoint to assume
	// DefaultEndpointURL.
	DefaultEndpoint bool
	// DefaultSchema synthesizes a "default" schema dependency when the config
	// declares none.
	DefaultSchema bool
	// EngineKey overrides any engineKey found in the config file.
	EngineKey string
}

// Config is the canonical form of an Apollo project configuration. It is
// immutable once assembled; resolvers treat it as a snapshot.
type Config struct {
	ConfigFile string `yaml:"-" json:"-"`
	ProjectDir string `yaml:"-" json:"-"`

	Name           string                       `yaml:"name" json:"name"`
	Schemas        map[string]*SchemaDependency `yaml:"schemas" json:"schemas"`
	Queries        []*DocumentSet               `yaml:"queries" json:"queries"`
	EngineEndpoint string                       `yaml:"engineEndpoint,omitempty" json:"engineEndpoint,omitempty"`
}

// New assembles a canonical Config from a raw, loosely-typed config object.
// configFile is the source the raw object came from; projectDir is the
// directory all relative paths and patterns are resolved against.
//
// When the config declares exactly one schema and no queries, an implicit
// document set referencing that schema is synthesized with default patterns.
func New(raw map[string]interface{}, configFile, projectDir string, opts Options) *Config {
	schemas := schemaDependencies(raw, projectDir, opts)

	rawQueries := raw["queries"]
	if rawQueries == nil && len(schemas) == 1 {
		for name := range schemas {
			rawQueries = []interface{}{map[string]interface{}{"schema": name}}
		}
	}

	var queries []*DocumentSet
	for _, entry := range rawEntries(rawQueries) {
		queries = append(queries, normalizeDocumentSet(entry))
	}

	engineEndpoint, _ := raw["engineEndpoint"].(string)

	return &Config{
		ConfigFile:     configFile,
		ProjectDir:     projectDir,
		Name:           filepath.Base(projectDir),
		Schemas:        schemas,
		Queries:        queries,
		EngineEndpoint: engineEndpoint,
	}
}

// rawEntries normalizes the queries field to a list: a single string or
// object stands for a one-element list, absence for an empty one.
func rawEntries(raw interface{}) []interface{} {
	switch v := raw.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	default:
		return []interface{}{v}
	}
}

// schemaDependencies expands the "services"/"clientSchema" shorthand into the
// canonical schema dependency mapping.
//
// Only one services entry is honored. The upstream shape expects a single
// service; with more than one present, the first key in lexicographic order
// wins so the outcome doesn't depend on map iteration order.
func schemaDependencies(raw map[string]interface{}, projectDir string, opts Options) map[string]*SchemaDependency {
	schemas := make(map[string]*SchemaDependency)
	firstName := ""

	if services, ok := raw["services"].(map[string]interface{}); ok && len(services) > 0 {
		names := make([]string, 0, len(services))
		for name := range services {
			names = append(names, name)
		}
		sort.Strings(names)
		name := names[0]
		ref, _ := services[name].(string)

		rawDep := map[string]interface{}{"clientSide": false}
		if strings.Contains(ref, "http") {
			rawDep["endpoint"] = ref
		} else if fileExists(projectDir, ref) {
			rawDep["schema"] = ref
		}
		schemas[name] = normalizeSchemaDependency(rawDep, opts, true)
		firstName = name
	}

	if len(schemas) == 0 && opts.DefaultSchema {
		schemas["default"] = normalizeSchemaDependency(map[string]interface{}{}, opts, opts.DefaultEndpoint)
		firstName = "default"
	}

	if clientSchema, ok := raw["clientSchema"].(string); ok && clientSchema != "" {
		// A client schema layers on top of whatever base schema exists.
		schemas["default"] = &SchemaDependency{
			SchemaFilePath: clientSchema,
			ClientSide:     true,
			Extends:        firstName,
		}
	}

	return schemas
}

func fileExists(projectDir, ref string) bool {
	if ref == "" {
		return false
	}
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectDir, path)
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
