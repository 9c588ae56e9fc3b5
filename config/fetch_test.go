package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const introspectionBody = `{
  "data": {
    "__schema": {
      "queryType": {"name": "Query"},
      "types": [
        {
          "kind": "OBJECT",
          "name": "Query",
          "fields": [
            {"name": "hello", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
          ]
        }
      ],
      "directives": []
    }
  }
}`

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(introspectionBody))
	}))
	defer server.Close()

	dep := &SchemaDependency{
		Endpoint: &EndpointConfig{
			URL:     server.URL,
			Headers: map[string]string{"X-Env": "dev"},
		},
		EngineKey: "service:abc:123",
	}

	fetcher := &HTTPFetcher{}
	result, err := fetcher.FetchIntrospection(testContext(t), dep, "staging")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Query", result.Schema.QueryType.Name)

	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "dev", gotHeaders.Get("X-Env"))
	assert.Equal(t, "service:abc:123", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "staging", gotHeaders.Get(SchemaTagHeader))
}

func TestHTTPFetcher_NoEndpoint(t *testing.T) {
	fetcher := &HTTPFetcher{}

	result, err := fetcher.FetchIntrospection(testContext(t), &SchemaDependency{}, "")
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = fetcher.FetchIntrospection(testContext(t), &SchemaDependency{Endpoint: &EndpointConfig{}}, "")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestHTTPFetcher_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors": [{"message": "introspection is disabled"}]}`))
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{}
	_, err := fetcher.FetchIntrospection(testContext(t), &SchemaDependency{
		Endpoint: &EndpointConfig{URL: server.URL},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introspection is disabled")
}

func TestHTTPFetcher_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{}
	_, err := fetcher.FetchIntrospection(testContext(t), &SchemaDependency{
		Endpoint: &EndpointConfig{URL: server.URL},
	}, "")
	require.Error(t, err)
}

func TestHTTPFetcher_NullData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{}
	result, err := fetcher.FetchIntrospection(testContext(t), &SchemaDependency{
		Endpoint: &EndpointConfig{URL: server.URL},
	}, "")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestHTTPFetcher_EndToEndResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(introspectionBody))
	}))
	defer server.Close()

	cfg := testConfig(t, map[string]string{
		"client.graphql": heredoc.Doc(`
			extend type Query {
				draft: String
			}
		`),
	}, map[string]*SchemaDependency{
		"remote": {Endpoint: &EndpointConfig{URL: server.URL}},
		"client": {SchemaFilePath: "client.graphql", Extends: "remote", ClientSide: true},
	})

	resolver := NewResolver(cfg)
	schema, err := resolver.ResolveSchema(testContext(t), "client", "")
	require.NoError(t, err)
	require.NotNil(t, schema)
	assert.NotNil(t, schema.Types["Query"].Fields.ForName("hello"))
	draft := schema.Types["Query"].Fields.ForName("draft")
	require.NotNil(t, draft)
	assert.NotNil(t, draft.Directives.ForName(ClientDirectiveName))
}
