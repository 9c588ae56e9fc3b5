package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrys/apollo-tooling/internal/testutils"
)

func rawConfig(t *testing.T, source string) map[string]interface{} {
	t.Helper()
	raw := make(map[string]interface{})
	err := yaml.Unmarshal([]byte(source), &raw)
	require.NoError(t, err)
	return raw
}

func TestNew_NameFromProjectDir(t *testing.T) {
	cfg := New(map[string]interface{}{}, "/work/star-wars/apollo.config.yaml", "/work/star-wars", Options{})
	assert.Equal(t, "star-wars", cfg.Name)
}

func TestNew_ImplicitDocumentSet(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		services:
		  reviews: http://localhost:4002/graphql
	`))
	cfg := New(raw, "/work/app/apollo.config.yaml", "/work/app", Options{})

	require.Len(t, cfg.Queries, 1)
	assert.Equal(t, "reviews", cfg.Queries[0].SchemaName)
	assert.Equal(t, []string{"**"}, cfg.Queries[0].Includes)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Queries[0].Excludes)
}

func TestNew_QueriesString(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		services:
		  reviews: http://localhost:4002/graphql
		queries: operations/**/*.graphql
	`))
	cfg := New(raw, "/work/app/apollo.config.yaml", "/work/app", Options{})

	require.Len(t, cfg.Queries, 1)
	// string promotion is independent of schema inference
	assert.Empty(t, cfg.Queries[0].SchemaName)
	assert.Equal(t, []string{"operations/**/*.graphql"}, cfg.Queries[0].Includes)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Queries[0].Excludes)
}

func TestNew_NoImplicitSetWithMultipleSchemas(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		services:
		  reviews: http://localhost:4002/graphql
		clientSchema: client.graphql
	`))
	cfg := New(raw, "/work/app/apollo.config.yaml", "/work/app", Options{})

	require.Len(t, cfg.Schemas, 2)
	assert.Empty(t, cfg.Queries)
}

func TestSchemaDependencies_ServiceURL(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		services:
		  reviews: https://reviews.example.com/graphql
	`))
	schemas := schemaDependencies(raw, "/work/app", Options{})

	require.Contains(t, schemas, "reviews")
	dep := schemas["reviews"]
	require.NotNil(t, dep.Endpoint)
	assert.Equal(t, "https://reviews.example.com/graphql", dep.Endpoint.URL)
	assert.Empty(t, dep.SchemaFilePath)
	assert.False(t, dep.ClientSide)
}

func TestSchemaDependencies_ServiceFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "schema.graphql"), []byte("type Query { hello: String }\n"), 0644)
	require.NoError(t, err)

	raw := map[string]interface{}{
		"services": map[string]interface{}{
			"local": "schema.graphql",
		},
	}
	schemas := schemaDependencies(raw, dir, Options{})

	require.Contains(t, schemas, "local")
	assert.Equal(t, "schema.graphql", schemas["local"].SchemaFilePath)
	// service dependencies still assume a local endpoint for execution
	require.NotNil(t, schemas["local"].Endpoint)
	assert.Equal(t, DefaultEndpointURL, schemas["local"].Endpoint.URL)
}

func TestSchemaDependencies_ServiceFileWithEngineKey(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "schema.graphql"), []byte("type Query { hello: String }\n"), 0644)
	require.NoError(t, err)

	raw := map[string]interface{}{
		"services": map[string]interface{}{
			"local": "schema.graphql",
		},
	}
	schemas := schemaDependencies(raw, dir, Options{EngineKey: "service:abc:123"})

	// a registry credential suppresses the local endpoint assumption
	assert.Nil(t, schemas["local"].Endpoint)
	assert.Equal(t, "service:abc:123", schemas["local"].EngineKey)
}

func TestSchemaDependencies_ServiceNeitherURLNorFile(t *testing.T) {
	raw := map[string]interface{}{
		"services": map[string]interface{}{
			"ghost": "does-not-exist.graphql",
		},
	}
	schemas := schemaDependencies(raw, t.TempDir(), Options{})

	require.Contains(t, schemas, "ghost")
	// treated the same as "no schema file", never read as a literal path
	assert.Empty(t, schemas["ghost"].SchemaFilePath)
}

func TestSchemaDependencies_OnlyFirstServiceHonored(t *testing.T) {
	raw := map[string]interface{}{
		"services": map[string]interface{}{
			"bravo": "http://bravo.example/graphql",
			"alpha": "http://alpha.example/graphql",
		},
	}
	schemas := schemaDependencies(raw, "/work/app", Options{})

	require.Len(t, schemas, 1)
	assert.Contains(t, schemas, "alpha")
}

func TestSchemaDependencies_DefaultSchema(t *testing.T) {
	schemas := schemaDependencies(map[string]interface{}{}, "/work/app", Options{
		DefaultSchema:   true,
		DefaultEndpoint: true,
	})

	require.Contains(t, schemas, "default")
	require.NotNil(t, schemas["default"].Endpoint)
	assert.Equal(t, DefaultEndpointURL, schemas["default"].Endpoint.URL)
}

func TestSchemaDependencies_ClientSchemaLayersOnService(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		services:
		  reviews: http://localhost:4002/graphql
		clientSchema: client.graphql
	`))
	schemas := schemaDependencies(raw, "/work/app", Options{})

	require.Contains(t, schemas, "default")
	dep := schemas["default"]
	assert.Equal(t, "client.graphql", dep.SchemaFilePath)
	assert.True(t, dep.ClientSide)
	assert.Equal(t, "reviews", dep.Extends)
}

func TestSchemaDependencies_ClientSchemaAlone(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		clientSchema: client.graphql
	`))
	schemas := schemaDependencies(raw, "/work/app", Options{})

	require.Len(t, schemas, 1)
	dep := schemas["default"]
	assert.True(t, dep.ClientSide)
	assert.Empty(t, dep.Extends)
}

func TestNew_EngineEndpointPassthrough(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		engineEndpoint: https://engine.example.com/api
	`))
	cfg := New(raw, "/work/app/apollo.config.yaml", "/work/app", Options{})
	assert.Equal(t, "https://engine.example.com/api", cfg.EngineEndpoint)
}

func TestNew_Golden(t *testing.T) {
	raw := rawConfig(t, heredoc.Doc(`
		services:
		  reviews: https://reviews.example.com/graphql
		engineEndpoint: https://engine.example.com/api
	`))
	cfg := New(raw, "/work/app/apollo.config.yaml", "/work/app", Options{})

	b, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	testutils.CheckGoldenFile(t, b, "./_testdata/expected/assemble_service.yaml")
}
