package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDocumentSet_Defaults(t *testing.T) {
	set := normalizeDocumentSet(map[string]interface{}{})
	assert.Empty(t, set.SchemaName)
	assert.Equal(t, []string{"**"}, set.Includes)
	assert.Equal(t, []string{"node_modules/**"}, set.Excludes)
}

func TestNormalizeDocumentSet_StringPromotion(t *testing.T) {
	set := normalizeDocumentSet(map[string]interface{}{
		"schema":   "default",
		"includes": "src/**/*.graphql",
		"excludes": "src/generated/**",
	})
	assert.Equal(t, "default", set.SchemaName)
	assert.Equal(t, []string{"src/**/*.graphql"}, set.Includes)
	assert.Equal(t, []string{"src/generated/**"}, set.Excludes)
}

func TestNormalizeDocumentSet_Sequences(t *testing.T) {
	set := normalizeDocumentSet(map[string]interface{}{
		"includes": []interface{}{"a/**", "b/**"},
	})
	assert.Equal(t, []string{"a/**", "b/**"}, set.Includes)
	assert.Equal(t, []string{"node_modules/**"}, set.Excludes)
}

func TestNormalizeDocumentSet_BareString(t *testing.T) {
	// a bare string stands for a single include pattern with no schema
	set := normalizeDocumentSet("operations/**/*.graphql")
	assert.Empty(t, set.SchemaName)
	assert.Equal(t, []string{"operations/**/*.graphql"}, set.Includes)
	assert.Equal(t, []string{"node_modules/**"}, set.Excludes)
}

func TestNormalizeDocumentSet_DefaultsAreCopies(t *testing.T) {
	a := normalizeDocumentSet(map[string]interface{}{})
	b := normalizeDocumentSet(map[string]interface{}{})
	a.Includes[0] = "mutated"
	assert.Equal(t, []string{"**"}, b.Includes)
	assert.Equal(t, []string{"**"}, DefaultIncludes)
}
