package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DefaultEndpointURL is assumed when a schema wants an endpoint but the
// config doesn't name one.
const DefaultEndpointURL = "http://localhost:4000/graphql"

type EndpointConfig struct {
	URL               string            `yaml:"url,omitempty" json:"url,omitempty" mapstructure:"url"`
	SubscriptionsURL  string            `yaml:"subscriptions,omitempty" json:"subscriptions,omitempty" mapstructure:"subscriptions"`
	Headers           map[string]string `yaml:"headers,omitempty" json:"headers,omitempty" mapstructure:"headers"`
	SkipSSLValidation bool              `yaml:"skipSSLValidation,omitempty" json:"skipSSLValidation,omitempty" mapstructure:"skipSSLValidation"`
}

// normalizeEndpoint accepts the shapes an endpoint may take in a raw config:
// a bare URL string, a partial object, or nothing at all. It never fails;
// unusable input degrades to "no endpoint" (or the default, when asked for).
func normalizeEndpoint(raw interface{}, shouldDefaultURL bool) *EndpointConfig {
	var endpoint *EndpointConfig
	switch v := raw.(type) {
	case string:
		endpoint = &EndpointConfig{URL: v}
	case map[string]interface{}:
		endpoint = &EndpointConfig{}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           endpoint,
			WeaklyTypedInput: true,
		})
		if err == nil {
			_ = decoder.Decode(v)
		}
	default:
		if shouldDefaultURL {
			endpoint = &EndpointConfig{URL: DefaultEndpointURL}
		}
	}

	if endpoint != nil && endpoint.URL != "" && endpoint.SubscriptionsURL == "" {
		// http -> ws, https -> wss. First occurrence only.
		endpoint.SubscriptionsURL = strings.Replace(endpoint.URL, "http", "ws", 1)
	}

	return endpoint
}
