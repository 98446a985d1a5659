// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package jsonobj

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	for raw, want := range map[string]Kind{
		"":            KindInvalid,
		"  ":          KindInvalid,
		"null":        KindNull,
		"true":        KindBool,
		"false":       KindBool,
		"-1.5":        KindNumber,
		"7":           KindNumber,
		`"x"`:         KindString,
		" [1,2]":      KindArray,
		"\n{\"a\":1}": KindObject,
		"?":           KindInvalid,
	} {
		assert.Equal(t, want, KindOf(json.RawMessage(raw)), "KindOf(%q)", raw)
	}
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "invalid", Kind(100).String())
}

func TestNumbers(t *testing.T) {
	v, err := Int(json.RawMessage("-12"))
	require.NoError(t, err)
	assert.Equal(t, int64(-12), v)

	for _, raw := range []string{"1.0", "1e3", `"3"`, "true", "99999999999999999999"} {
		_, err = Int(json.RawMessage(raw))
		assert.Error(t, err, "Int(%s)", raw)
	}

	f, err := Float(json.RawMessage("0.25"))
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)
	_, err = Float(json.RawMessage(`"0.25"`))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	obj, err := Parse(json.RawMessage(`{"b": 1, "a": {"x": [1, 2]}, "b": "again"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b"}, obj.Keys())
	assert.Equal(t, []string{"b"}, obj.Duplicates())

	value, found := obj.Get("b")
	require.True(t, found)
	assert.Equal(t, `"again"`, string(value))
	assert.True(t, obj.Has("a"))
	assert.False(t, obj.Has("c"))

	deduped := obj.Dedup()
	assert.Equal(t, []string{"a", "b"}, deduped.Keys())
	assert.Empty(t, deduped.Duplicates())

	for _, raw := range []string{`[]`, `"x"`, ``, `{"a":1} {}`, `{"a":}`} {
		_, err = Parse(json.RawMessage(raw))
		assert.Error(t, err, "Parse(%q)", raw)
	}
}

func TestMarshal(t *testing.T) {
	var obj Object
	require.NoError(t, obj.Set("z", 1))
	require.NoError(t, obj.Set("a", json.RawMessage(`[1,2]`)))
	require.NoError(t, obj.Set("z", "last"))
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last","a":[1,2]}`, string(data))

	var back Object
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"z", "a"}, back.Keys())

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &back))

	data, err = json.Marshal(Object{{Key: "empty"}})
	require.NoError(t, err)
	assert.Equal(t, `{"empty":null}`, string(data))
}

func TestLookups(t *testing.T) {
	obj, err := Parse(json.RawMessage(`{"flag": 3, "name": "rgb", "on": true, "bad": 1.5}`))
	require.NoError(t, err)

	on, err := obj.BoolOr("on", false)
	require.NoError(t, err)
	assert.True(t, on)
	off, err := obj.BoolOr("missing", false)
	require.NoError(t, err)
	assert.False(t, off)
	_, err = obj.BoolOr("name", false)
	assert.Error(t, err)

	name, err := obj.StringOr("name", "")
	require.NoError(t, err)
	assert.Equal(t, "rgb", name)
	name, err = obj.StringOr("missing", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", name)
	_, err = obj.StringOr("flag", "")
	assert.Error(t, err)

	flag, err := obj.IntOr("flag", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), flag)
	flag, err = obj.IntOr("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), flag)
	_, err = obj.IntOr("bad", 0)
	assert.ErrorContains(t, err, `"bad"`)
}

func TestArray(t *testing.T) {
	elements, err := Array(json.RawMessage(`[1, "a", {"b": 2}]`))
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, KindObject, KindOf(elements[2]))
	_, err = Array(json.RawMessage(`{}`))
	assert.Error(t, err)
}
