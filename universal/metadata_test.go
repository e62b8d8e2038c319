package universal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_ZeroValue(t *testing.T) {
	var md Metadata
	assert.Equal(t, 0, md.Len())
	assert.Empty(t, md.Keys())

	b, err := json.Marshal(md)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))

	_, ok := md.Get("missing")
	assert.False(t, ok)
}

func TestMetadata_InsertionOrder(t *testing.T) {
	md := NewMetadata()
	md.Set("itemType", "commandExecution")
	md.Set("command", "ls -la")
	md.Set("exitCode", 0)
	md.Set("cwd", "/tmp")

	assert.Equal(t, []string{"itemType", "command", "exitCode", "cwd"}, md.Keys())

	b, err := json.Marshal(md)
	require.NoError(t, err)
	assert.Equal(t, `{"itemType":"commandExecution","command":"ls -la","exitCode":0,"cwd":"/tmp"}`, string(b))
}

func TestMetadata_SetReplacesInPlace(t *testing.T) {
	var md Metadata
	md.Set("a", 1)
	md.Set("b", 2)
	md.Set("a", "again")

	assert.Equal(t, 2, md.Len())
	assert.Equal(t, []string{"a", "b"}, md.Keys())
	got, ok := md.GetString("a")
	require.True(t, ok)
	assert.Equal(t, "again", got)
}

func TestMetadata_UnencodableValueIsNull(t *testing.T) {
	var md Metadata
	md.Set("fn", func() {})

	raw, ok := md.Get("fn")
	require.True(t, ok)
	assert.JSONEq(t, `null`, string(raw))
}

func TestMetadata_UnmarshalKeepsOrder(t *testing.T) {
	var md Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":"two","m":[3]}`), &md))

	assert.Equal(t, []string{"z", "a", "m"}, md.Keys())
	s, ok := md.GetString("a")
	require.True(t, ok)
	assert.Equal(t, "two", s)

	_, ok = md.GetString("z")
	assert.False(t, ok, "number is not a string")
}

func TestMetadata_UnmarshalNull(t *testing.T) {
	var md Metadata
	require.NoError(t, json.Unmarshal([]byte(`null`), &md))
	assert.Equal(t, 0, md.Len())
}
