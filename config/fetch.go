package config

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/99designs/gqlgen/graphql"

	"github.com/patrys/apollo-tooling/internal/introspection"
)

var _ IntrospectionFetcher = (*HTTPFetcher)(nil)

// SchemaTagHeader carries the multi-environment schema tag on introspection
// requests.
const SchemaTagHeader = "apollographql-schema-tag"

// HTTPFetcher runs the standard introspection query against the dependency's
// endpoint over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// FetchIntrospection posts the introspection query to dep's endpoint. A
// dependency without an endpoint URL has nothing to introspect against and
// yields (nil, nil); a failed request or an error response is an error.
func (f *HTTPFetcher) FetchIntrospection(ctx context.Context, dep *SchemaDependency, tag string) (*introspection.Result, error) {
	if dep.Endpoint == nil || dep.Endpoint.URL == "" {
		return nil, nil
	}

	hc := f.Client
	if hc == nil {
		hc = http.DefaultClient
		if dep.Endpoint.SkipSSLValidation {
			hc = &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
				},
			}
		}
	}

	type rawParams struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName,omitempty"`
		Variables     map[string]interface{} `json:"variables,omitempty"`
	}
	body, err := json.Marshal(&rawParams{
		Query:         introspection.Query,
		OperationName: "IntrospectionQuery",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dep.Endpoint.URL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range dep.Endpoint.Headers {
		req.Header.Set(key, value)
	}
	if dep.EngineKey != "" {
		req.Header.Set("x-api-key", dep.EngineKey)
	}
	if tag != "" {
		req.Header.Set(SchemaTagHeader, tag)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response code from %s: %d", dep.Endpoint.URL, resp.StatusCode)
	}

	gqlResp := &graphql.Response{}
	if err := json.Unmarshal(b, gqlResp); err != nil {
		return nil, err
	}
	if len(gqlResp.Errors) != 0 {
		return nil, gqlResp.Errors
	}
	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil, nil
	}

	result := &introspection.Result{}
	if err := json.Unmarshal(gqlResp.Data, result); err != nil {
		return nil, err
	}
	return result, nil
}
