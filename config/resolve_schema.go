package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/patrys/apollo-tooling/internal/introspection"
	"github.com/patrys/apollo-tooling/internal/log"
)

// ClientDirectiveName marks fields that only exist in a client-side schema.
// The marker is consumed by downstream tooling, not by the resolver itself.
const ClientDirectiveName = "client"

// clientDirectiveSource declares the marker directive. It is flagged as
// built-in so a formatted schema never re-declares it.
var clientDirectiveSource = &ast.Source{
	Name:    "client-directive.graphql",
	Input:   fmt.Sprintf("directive @%s on FIELD_DEFINITION\n", ClientDirectiveName),
	BuiltIn: true,
}

// IntrospectionFetcher obtains an introspection result for a schema
// dependency. A (nil, nil) return means the schema is unavailable, which is
// not an error; callers decide whether they can proceed without it.
type IntrospectionFetcher interface {
	FetchIntrospection(ctx context.Context, dep *SchemaDependency, tag string) (*introspection.Result, error)
}

// Resolver materializes schemas and document sets from a canonical Config.
type Resolver struct {
	Config  *Config
	Fetcher IntrospectionFetcher
}

func NewResolver(cfg *Config) *Resolver {
	return &Resolver{
		Config:  cfg,
		Fetcher: &HTTPFetcher{},
	}
}

// ResolveSchema resolves the named schema dependency into a schema object,
// walking its extends chain. A nil schema with a nil error means the terminal
// dependency's introspection was unavailable.
func (r *Resolver) ResolveSchema(ctx context.Context, name string, tag string) (*ast.Schema, error) {
	return r.resolveSchema(ctx, name, tag, make(map[string]bool))
}

func (r *Resolver) resolveSchema(ctx context.Context, name string, tag string, visited map[string]bool) (*ast.Schema, error) {
	if visited[name] {
		return nil, &CyclicExtensionError{Name: name}
	}
	visited[name] = true

	dep, ok := r.Config.Schemas[name]
	if !ok {
		return nil, &UnknownSchemaError{Name: name}
	}

	logger := log.FromContext(ctx)

	switch {
	case dep.Extends != "":
		doc, err := r.loadSchemaDocument(dep)
		if err != nil {
			return nil, err
		}
		if dep.ClientSide {
			doc = annotateClientFields(doc)
		}
		base, err := r.resolveSchema(ctx, dep.Extends, tag, visited)
		if err != nil {
			return nil, err
		}
		if base == nil {
			// The base schema is unavailable, so the extension can't apply.
			logger.V(1).Info("base schema unavailable, skipping extension", "name", name, "extends", dep.Extends)
			return nil, nil
		}
		return extendSchema(base, doc)

	case dep.ClientSide:
		doc, err := r.loadSchemaDocument(dep)
		if err != nil {
			return nil, err
		}
		return buildSchema(doc)

	default:
		fetcher := r.Fetcher
		if fetcher == nil {
			fetcher = &HTTPFetcher{}
		}
		result, err := fetcher.FetchIntrospection(ctx, dep, tag)
		if err != nil {
			return nil, fmt.Errorf("introspect schema %q: %w", name, err)
		}
		if result == nil {
			logger.V(1).Info("introspection unavailable", "name", name)
			return nil, nil
		}
		return introspection.Schema(result)
	}
}

// loadSchemaDocument reads and parses the dependency's own SDL file. Paths
// are resolved against the project root.
func (r *Resolver) loadSchemaDocument(dep *SchemaDependency) (*ast.SchemaDocument, error) {
	if dep.SchemaFilePath == "" {
		return nil, fmt.Errorf("schema dependency has no schema file to load")
	}
	path := dep.SchemaFilePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Config.ProjectDir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, gErr := parser.ParseSchema(&ast.Source{
		Name:  path,
		Input: string(b),
	})
	if gErr != nil {
		return nil, gErr
	}
	return doc, nil
}

// annotateClientFields returns a copy of doc with every field definition
// marked @client. The input document is left untouched so concurrent
// resolutions never observe a half-annotated tree.
func annotateClientFields(doc *ast.SchemaDocument) *ast.SchemaDocument {
	annotated := *doc
	annotated.Definitions = annotateDefinitions(doc.Definitions)
	annotated.Extensions = annotateDefinitions(doc.Extensions)
	return &annotated
}

func annotateDefinitions(defs ast.DefinitionList) ast.DefinitionList {
	out := make(ast.DefinitionList, 0, len(defs))
	for _, def := range defs {
		d := *def
		fields := make(ast.FieldList, 0, len(def.Fields))
		for _, field := range def.Fields {
			f := *field
			directives := make(ast.DirectiveList, 0, len(field.Directives)+1)
			directives = append(directives, field.Directives...)
			directives = append(directives, &ast.Directive{Name: ClientDirectiveName})
			f.Directives = directives
			fields = append(fields, &f)
		}
		d.Fields = fields
		out = append(out, &d)
	}
	return out
}

// buildSchema validates and builds a schema from a single SDL document.
func buildSchema(doc *ast.SchemaDocument) (*ast.Schema, error) {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)

	schema, err := gqlparser.LoadSchema(
		clientDirectiveSource,
		&ast.Source{Name: "client schema", Input: buf.String()},
	)
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// extendSchema applies an SDL document on top of an already-built schema by
// round-tripping the base through the formatter and loading both together.
func extendSchema(base *ast.Schema, doc *ast.SchemaDocument) (*ast.Schema, error) {
	var baseBuf bytes.Buffer
	formatter.NewFormatter(&baseBuf).FormatSchema(base)

	var extBuf bytes.Buffer
	formatter.NewFormatter(&extBuf).FormatSchemaDocument(doc)

	schema, err := gqlparser.LoadSchema(
		clientDirectiveSource,
		&ast.Source{Name: "base schema", Input: baseBuf.String()},
		&ast.Source{Name: "schema extension", Input: extBuf.String()},
	)
	if err != nil {
		return nil, err
	}
	return schema, nil
}
