package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var doc interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestRequiredKeysSchema_Valid(t *testing.T) {
	schema := MustRequiredKeysSchema("title", "description", "tags")

	result, err := schema.Validate(decode(t, `{"title":"a","description":"b","tags":[],"extra":1}`))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestRequiredKeysSchema_ValueTypesIgnored(t *testing.T) {
	schema := MustRequiredKeysSchema("title", "files")

	result, err := schema.Validate(decode(t, `{"title":null,"files":"nope"}`))
	require.NoError(t, err)

	assert.True(t, result.Valid)
}

func TestRequiredKeysSchema_MissingFields(t *testing.T) {
	schema := MustRequiredKeysSchema("title", "description", "tags")

	result, err := schema.Validate(decode(t, `{"title":"only"}`))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.ElementsMatch(t, []string{"description", "tags"}, result.MissingFields())
	require.Len(t, result.Errors, 2)
	assert.Equal(t, CodeRequiredFieldMissing, result.Errors[0].Code)
}

func TestRequiredKeysSchema_NonObject(t *testing.T) {
	schema := MustRequiredKeysSchema("title")

	for _, raw := range []string{`[]`, `"title"`, `3`, `null`} {
		result, err := schema.Validate(decode(t, raw))
		require.NoError(t, err)

		assert.False(t, result.Valid, raw)
		require.NotEmpty(t, result.Errors, raw)
		assert.Equal(t, CodeInvalidType, result.Errors[0].Code, raw)
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 12})
	assert.Error(t, err)
}
