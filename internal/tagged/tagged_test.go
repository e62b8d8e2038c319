package tagged

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface{ sides() int }

type square struct {
	Side int `json:"side"`
}

func (square) sides() int { return 4 }

type dot struct{}

func (dot) sides() int { return 0 }

var shapeDecoders = map[string]func([]byte) (shape, error){
	"square": As[square, shape],
	"dot":    As[dot, shape],
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		v    any
		want string
	}{
		{name: "fields", tag: "square", v: square{Side: 2}, want: `{"type":"square","side":2}`},
		{name: "empty", tag: "dot", v: dot{}, want: `{"type":"dot"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Marshal("type", tc.tag, tc.v)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshal_NotObject(t *testing.T) {
	_, err := Marshal("type", "x", []int{1})
	require.Error(t, err)
}

func TestPeek(t *testing.T) {
	tag, err := Peek([]byte(`{"side":1,"type":"square"}`), "type")
	require.NoError(t, err)
	assert.Equal(t, "square", tag)

	tag, err = Peek([]byte(`{"method":"item/completed"}`), "method")
	require.NoError(t, err)
	assert.Equal(t, "item/completed", tag)

	_, err = Peek([]byte(`{"type":3}`), "type")
	assert.True(t, errors.Is(err, ErrMissingTag))

	_, err = Peek([]byte(`{not json`), "type")
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	v, err := Decode([]byte(`{"type":"square","side":3}`), "type", shapeDecoders)
	require.NoError(t, err)
	assert.Equal(t, square{Side: 3}, v)

	_, err = Decode([]byte(`{"type":"circle"}`), "type", shapeDecoders)
	var unk *UnknownTagError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "circle", unk.Tag)

	_, err = Decode([]byte(`{"type":"square","side":"wide"}`), "type", shapeDecoders)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `decode type "square"`)
}

func TestDeref(t *testing.T) {
	var s shape = &square{Side: 3}
	assert.Equal(t, square{Side: 3}, Deref(s))

	s = square{Side: 1}
	assert.Equal(t, square{Side: 1}, Deref(s))

	var nilSquare *square
	s = nilSquare
	assert.Nil(t, Deref(s))

	s = nil
	assert.Nil(t, Deref(s))
}
