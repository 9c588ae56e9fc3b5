package config

import "fmt"

// UnsupportedFormatError reports a config source file the loader doesn't know
// how to parse.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config format: %s", e.Path)
}

// UnknownSchemaError reports a schema/extends/document-set reference naming a
// key absent from the config's schema mapping.
type UnknownSchemaError struct {
	Name string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("unknown schema reference: %q", e.Name)
}

// CyclicExtensionError reports an extends chain that revisits a name.
type CyclicExtensionError struct {
	Name string
}

func (e *CyclicExtensionError) Error() string {
	return fmt.Sprintf("cyclic schema extension at: %q", e.Name)
}

// PatternError reports an include or exclude pattern the glob engine rejected.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("bad glob pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
