package universal

import "encoding/json"

var nullRaw = json.RawMessage("null")

// RawValue encodes v for use as an opaque payload. Encoding failures yield a
// JSON null so that conversion always produces a value.
func RawValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nullRaw
	}
	return b
}

// OptionalRaw is RawValue for optional fields: failures and nil inputs yield
// nil, which is omitted from the encoded output.
func OptionalRaw(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
