// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package tensorlist

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestList(t *testing.T) {
	assert.Equal(t, `["a","b"]`, string(EncodeList([]string{"a", "b"})))
	assert.Equal(t, `[]`, string(EncodeList(nil)))

	names, err := DecodeList(EncodeList([]string{"left", "right"}), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, names)

	// Objects with a "tensor" field are accepted, anything else is skipped.
	names, err = DecodeList(raw(`["a", {"tensor": "b", "name": "alias"}, 3, {"name": "c"}, {"tensor": 4}, null, "d"]`), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, names)

	// Non-arrays decode to an empty list.
	for _, value := range []json.RawMessage{nil, raw(`"a"`), raw(`{"tensor": "a"}`), raw(`null`)} {
		names, err = DecodeList(value, false)
		require.NoError(t, err)
		assert.Empty(t, names)
	}
}

func TestListStrict(t *testing.T) {
	names, err := DecodeList(nil, true)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, value := range []string{`"a"`, `["a", 3]`, `[{"name": "c"}]`, `[{"tensor": 4}]`} {
		_, err = DecodeList(raw(value), true)
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, ErrMalformed))
	}
}

func TestMapped(t *testing.T) {
	mapping := []Mapped{{Alias: "input_1", Tensor: "normalized"}, {Alias: "_538", Tensor: "score"}}
	encoded := EncodeMapped(mapping)
	assert.Equal(t, `[{"name":"input_1","tensor":"normalized"},{"name":"_538","tensor":"score"}]`, string(encoded))
	assert.Equal(t, `[]`, string(EncodeMapped(nil)))

	decoded, err := DecodeMapped(encoded, true)
	require.NoError(t, err)
	assert.Equal(t, mapping, decoded)
	assert.Equal(t, []string{"normalized", "score"}, Tensors(decoded))
}

func TestMappedNormalization(t *testing.T) {
	decoded, err := DecodeMapped(raw(`[{"name":"x","tensor":"t"}]`), false)
	require.NoError(t, err)
	assert.Equal(t, []Mapped{{Alias: "x", Tensor: "t"}}, decoded)

	decoded, err = DecodeMapped(raw(`["t"]`), false)
	require.NoError(t, err)
	assert.Equal(t, []Mapped{{Alias: "t", Tensor: "t"}}, decoded)

	decoded, err = DecodeMapped(raw(`[{"name":"x","tensor":""}, {"name":"y"}, "", {"name":"","tensor":"u"}, {"tensor":"v"}]`), false)
	require.NoError(t, err)
	assert.Equal(t, []Mapped{{Alias: "u", Tensor: "u"}, {Alias: "v", Tensor: "v"}}, decoded)

	// Lenient mode ignores fields and elements of the wrong type.
	decoded, err = DecodeMapped(raw(`[{"name": 1, "tensor": "w"}, 5, {"tensor": true}]`), false)
	require.NoError(t, err)
	assert.Equal(t, []Mapped{{Alias: "w", Tensor: "w"}}, decoded)

	decoded, err = DecodeMapped(raw(`{"name":"x","tensor":"t"}`), false)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestMappedStrict(t *testing.T) {
	// Empty tensors are still dropped in strict mode.
	decoded, err := DecodeMapped(raw(`[{"name":"x","tensor":""}, "t"]`), true)
	require.NoError(t, err)
	assert.Equal(t, []Mapped{{Alias: "t", Tensor: "t"}}, decoded)

	for _, value := range []string{`{}`, `[5]`, `[{"name": 1, "tensor": "w"}]`, `[{"tensor": true}]`} {
		_, err = DecodeMapped(raw(value), true)
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, ErrMalformed))
	}
}

func TestFloats(t *testing.T) {
	values := []float32{0, 0.5, 1, 0, 0, 1}
	encoded := EncodeFloats(values)
	assert.Equal(t, `[0,0.5,1,0,0,1]`, string(encoded))
	decoded, err := DecodeFloats(encoded, 6)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)

	points, err := DecodeAffinePoints(raw(`[1, 2, 3.5, -4, 5e-1, 6]`))
	require.NoError(t, err)
	assert.Equal(t, [6]float32{1, 2, 3.5, -4, 0.5, 6}, points)

	for _, value := range []string{`[1, 2, 3, 4, 5]`, `[1, 2, 3, 4, 5, 6, 7]`, `[1, 2, 3, 4, 5, "6"]`, `{}`, `null`, ``} {
		_, err = DecodeAffinePoints(raw(value))
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, ErrMalformedFloats))
		assert.False(t, errors.Is(err, ErrMalformed))
		assert.Contains(t, err.Error(), "malformed float array")
	}
}
