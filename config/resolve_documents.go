package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/errgroup"

	"github.com/patrys/apollo-tooling/internal/log"
)

// ResolvedDocumentSet is a document set materialized into concrete files and
// connection details. It is owned by the resolution call that produced it.
type ResolvedDocumentSet struct {
	Schema        *ast.Schema
	Endpoint      *EndpointConfig
	EngineKey     string
	DocumentPaths []string
	Set           *DocumentSet
}

// ResolveDocumentSets materializes every document set in the config. Sets are
// independent and resolve concurrently; the result order matches
// Config.Queries. Schema objects are only resolved when needSchema is set,
// since that is the expensive network path.
func (r *Resolver) ResolveDocumentSets(ctx context.Context, needSchema bool, tag string) ([]*ResolvedDocumentSet, error) {
	results := make([]*ResolvedDocumentSet, len(r.Config.Queries))

	eg, ctx := errgroup.WithContext(ctx)
	for i, set := range r.Config.Queries {
		i, set := i, set
		eg.Go(func() error {
			resolved, err := r.resolveDocumentSet(ctx, set, needSchema, tag)
			if err != nil {
				return err
			}
			results[i] = resolved
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Resolver) resolveDocumentSet(ctx context.Context, set *DocumentSet, needSchema bool, tag string) (*ResolvedDocumentSet, error) {
	cfg := r.Config
	logger := log.FromContext(ctx)

	var dep *SchemaDependency
	if set.SchemaName != "" {
		d, ok := cfg.Schemas[set.SchemaName]
		if !ok {
			return nil, &UnknownSchemaError{Name: set.SchemaName}
		}
		dep = d
	}

	var schema *ast.Schema
	if needSchema && set.SchemaName != "" {
		s, err := r.ResolveSchema(ctx, set.SchemaName, tag)
		if err != nil {
			return nil, err
		}
		schema = s
	}

	// Schema definition files along the extends chain must never be mistaken
	// for operation documents, even when an include pattern matches them.
	schemaPaths, err := r.schemaFilePaths(set.SchemaName)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(cfg.ProjectDir)
	seen := make(map[string]bool)
	var relPaths []string
	for _, pattern := range set.Includes {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				relPaths = append(relPaths, match)
			}
		}
	}

	excludePatterns := make([]string, 0, len(set.Excludes)+len(schemaPaths))
	excludePatterns = append(excludePatterns, set.Excludes...)
	excludePatterns = append(excludePatterns, schemaPaths...)

	var documentPaths []string
	for _, rel := range relPaths {
		excluded := false
		for _, pattern := range excludePatterns {
			ok, err := doublestar.Match(pattern, rel)
			if err != nil {
				return nil, &PatternError{Pattern: pattern, Err: err}
			}
			if ok {
				excluded = true
				break
			}
		}
		if !excluded {
			documentPaths = append(documentPaths, filepath.Join(cfg.ProjectDir, filepath.FromSlash(rel)))
		}
	}
	sort.Strings(documentPaths)

	logger.V(1).Info("resolved document set",
		"schema", set.SchemaName,
		"documents", len(documentPaths))

	resolved := &ResolvedDocumentSet{
		Schema:        schema,
		DocumentPaths: documentPaths,
		Set:           set,
	}
	if dep != nil {
		resolved.Endpoint = dep.Endpoint
		resolved.EngineKey = dep.EngineKey
	}
	return resolved, nil
}

// schemaFilePaths collects every schema file along the extends chain starting
// at name, as slash-separated paths relative to the project root.
func (r *Resolver) schemaFilePaths(name string) ([]string, error) {
	var paths []string
	visited := make(map[string]bool)

	for name != "" {
		if visited[name] {
			return nil, &CyclicExtensionError{Name: name}
		}
		visited[name] = true

		dep, ok := r.Config.Schemas[name]
		if !ok {
			return nil, &UnknownSchemaError{Name: name}
		}
		if dep.SchemaFilePath != "" {
			rel := dep.SchemaFilePath
			if filepath.IsAbs(rel) {
				if relPath, err := filepath.Rel(r.Config.ProjectDir, rel); err == nil {
					rel = relPath
				}
			}
			paths = append(paths, filepath.ToSlash(rel))
		}
		name = dep.Extends
	}

	return paths, nil
}
