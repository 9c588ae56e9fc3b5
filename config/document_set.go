package config

// Default patterns applied to a document set that doesn't state its own.
var (
	DefaultIncludes = []string{"**"}
	DefaultExcludes = []string{"node_modules/**"}
)

// DocumentSet is a pattern-defined collection of operation documents,
// optionally associated with one of the config's schemas.
type DocumentSet struct {
	SchemaName string   `yaml:"schema,omitempty" json:"schema,omitempty"`
	Includes   []string `yaml:"includes" json:"includes"`
	Excludes   []string `yaml:"excludes" json:"excludes"`
}

// normalizeDocumentSet canonicalizes one raw document set entry. A bare
// string is shorthand for a single include pattern. Pattern syntax is not
// checked here; bad globs surface when the set is resolved.
func normalizeDocumentSet(raw interface{}) *DocumentSet {
	set := &DocumentSet{}
	switch v := raw.(type) {
	case string:
		set.Includes = []string{v}
		set.Excludes = stringSlice(nil, DefaultExcludes)
	case map[string]interface{}:
		if name, ok := v["schema"].(string); ok {
			set.SchemaName = name
		}
		set.Includes = stringSlice(v["includes"], DefaultIncludes)
		set.Excludes = stringSlice(v["excludes"], DefaultExcludes)
	default:
		set.Includes = stringSlice(nil, DefaultIncludes)
		set.Excludes = stringSlice(nil, DefaultExcludes)
	}
	return set
}

// stringSlice promotes the string-or-sequence shapes the config accepts to a
// plain []string, falling back to def when the value is absent or unusable.
func stringSlice(raw interface{}, def []string) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return append([]string(nil), def...)
}
