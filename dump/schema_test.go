package dump_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/dump"
)

func TestSchemaV1(t *testing.T) {
	s, err := dump.Schema(dump.V1)
	require.NoError(t, err)
	assert.Equal(t, "object", s.Type)
	require.NotNil(t, s.AdditionalProperties)

	class := s.AdditionalProperties
	_, ok := class.Properties.Get("bases")
	assert.True(t, ok)
	_, ok = class.Properties.Get("name")
	assert.False(t, ok)

	props, ok := class.Properties.Get("properties")
	require.True(t, ok)
	require.NotNil(t, props.AdditionalProperties)
	_, ok = props.AdditionalProperties.Properties.Get("enum_options")
	assert.True(t, ok)
}

func TestSchemaV2(t *testing.T) {
	s, err := dump.Schema(dump.V2)
	require.NoError(t, err)

	_, ok := s.Properties.Get("version")
	assert.True(t, ok)
	classes, ok := s.Properties.Get("classes")
	require.True(t, ok)
	require.NotNil(t, classes.AdditionalProperties)
	_, ok = classes.AdditionalProperties.Properties.Get("name")
	assert.True(t, ok)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"enum_options"`)
}

func TestSchemaUnsupportedVersion(t *testing.T) {
	_, err := dump.Schema(7)
	require.ErrorIs(t, err, dump.ErrUnsupportedVersion)
}
