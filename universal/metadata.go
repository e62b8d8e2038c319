package universal

import (
	"bytes"
	"encoding/json"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Metadata is an ordered bag of JSON values keyed by unique strings.
// Keys keep the position of their first insertion; setting an existing key
// replaces its value in place. The zero value is an empty bag.
type Metadata struct {
	pairs *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewMetadata returns an empty bag.
func NewMetadata() Metadata {
	return Metadata{pairs: orderedmap.New[string, json.RawMessage]()}
}

// Set stores the JSON encoding of value under key. A value that cannot be
// encoded is stored as null.
func (m *Metadata) Set(key string, value any) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, json.RawMessage]()
	}
	m.pairs.Set(key, RawValue(value))
}

// Get returns the encoded value stored under key.
func (m Metadata) Get(key string) (json.RawMessage, bool) {
	if m.pairs == nil {
		return nil, false
	}
	return m.pairs.Get(key)
}

// GetString returns the value under key when it is a JSON string.
func (m Metadata) GetString(key string) (string, bool) {
	raw, ok := m.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Len returns the number of keys.
func (m Metadata) Len() int {
	if m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Keys returns the keys in insertion order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, m.Len())
	if m.pairs == nil {
		return keys
	}
	for p := m.pairs.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// MarshalJSON encodes the bag as an object with keys in insertion order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.pairs == nil {
		return []byte("{}"), nil
	}
	return m.pairs.MarshalJSON()
}

// UnmarshalJSON decodes an object, keeping the key order of the input.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	m.pairs = orderedmap.New[string, json.RawMessage]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return m.pairs.UnmarshalJSON(data)
}

// JSONSchema describes the bag as an open object.
func (Metadata) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          "Ordered backend-specific attributes.",
		AdditionalProperties: jsonschema.TrueSchema,
	}
}
