// Package tagged encodes and decodes discriminated-union JSON values, where
// one object field names the variant and the remaining fields belong to it.
package tagged

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
)

// ErrMissingTag is returned when a value has no usable discriminant field.
var ErrMissingTag = errors.New("missing discriminant")

// Marshal encodes v as a JSON object and writes key=tag as its first field.
// v must encode to a JSON object; callers pass an alias type so that the
// variant's own MarshalJSON is not re-entered.
func Marshal(key, tag string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("tagged %s %q: variant is not a JSON object", key, tag)
	}

	k, _ := json.Marshal(key)
	t, _ := json.Marshal(tag)

	var buf bytes.Buffer
	buf.Grow(len(body) + len(k) + len(t) + 3)
	buf.WriteByte('{')
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(t)
	if rest := bytes.TrimSpace(body[1:]); len(rest) > 0 && rest[0] != '}' {
		buf.WriteByte(',')
	}
	buf.Write(body[1:])
	return buf.Bytes(), nil
}

// Peek returns the string discriminant stored under key without decoding
// the rest of the value.
func Peek(data []byte, key string) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("peek %s: invalid JSON", key)
	}
	res := gjson.GetBytes(data, escapeKey(key))
	if res.Type != gjson.String || res.Str == "" {
		return "", fmt.Errorf("peek %s: %w", key, ErrMissingTag)
	}
	return res.Str, nil
}

// Decode peeks the discriminant under key and decodes data with the
// matching entry in decoders.
func Decode[T any](data []byte, key string, decoders map[string]func([]byte) (T, error)) (T, error) {
	var zero T
	tag, err := Peek(data, key)
	if err != nil {
		return zero, err
	}
	dec, ok := decoders[tag]
	if !ok {
		return zero, &UnknownTagError{Key: key, Tag: tag}
	}
	v, err := dec(data)
	if err != nil {
		return zero, fmt.Errorf("decode %s %q: %w", key, tag, err)
	}
	return v, nil
}

// As decodes data into a fresh V and returns it as T. It is the usual entry
// in a Decode table.
func As[V any, T any](data []byte) (T, error) {
	var v V
	var zero T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, err
	}
	t, ok := any(v).(T)
	if !ok {
		return zero, fmt.Errorf("%T does not implement %T", v, (*T)(nil))
	}
	return t, nil
}

// Deref returns the variant a non-nil pointer points to, so that a type
// switch over value variants also accepts pointers to them. A nil pointer
// yields the nil T. Other values are returned unchanged.
func Deref[T any](v T) T {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer {
		return v
	}
	var zero T
	if rv.IsNil() {
		return zero
	}
	if d, ok := rv.Elem().Interface().(T); ok {
		return d
	}
	return v
}

// UnknownTagError reports a discriminant that has no registered variant.
type UnknownTagError struct {
	Key string
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Key, e.Tag)
}

func escapeKey(key string) string {
	var b bytes.Buffer
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
