// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package jsonobj handles JSON objects as ordered lists of members.
//
// Decoding a JSON object into a Go map loses both the order of the keys and any repeated key.
// Pipeline documents care about both: tensors are created in declaration order, and a repeated
// tensor name may be rejected. An Object keeps the members exactly as they appear in the document.
package jsonobj

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/support/sets"
)

// Kind of a JSON value, as determined by its first significant byte.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf returns the Kind of the raw JSON value.
//
// It only looks at the first significant byte: the value is assumed to have been validated by
// a previous json.Unmarshal. An empty (or all whitespace) value is KindInvalid.
func KindOf(raw json.RawMessage) Kind {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 {
		return KindInvalid
	}
	switch c := raw[0]; {
	case c == 'n':
		return KindNull
	case c == 't' || c == 'f':
		return KindBool
	case c == '"':
		return KindString
	case c == '[':
		return KindArray
	case c == '{':
		return KindObject
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	default:
		return KindInvalid
	}
}

// Int parses raw as a JSON integer: a number with no fraction or exponent that fits an int64.
func Int(raw json.RawMessage) (int64, error) {
	if KindOf(raw) != KindNumber {
		return 0, errors.Errorf("expected an integer, got %s", KindOf(raw))
	}
	v, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return 0, errors.Errorf("expected an integer, got %s", raw)
	}
	return v, nil
}

// Float parses raw as a JSON number.
func Float(raw json.RawMessage) (float64, error) {
	if KindOf(raw) != KindNumber {
		return 0, errors.Errorf("expected a number, got %s", KindOf(raw))
	}
	v, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "expected a number, got %s", raw)
	}
	return v, nil
}

// Array splits a raw JSON array into its elements.
func Array(raw json.RawMessage) ([]json.RawMessage, error) {
	if KindOf(raw) != KindArray {
		return nil, errors.Errorf("expected an array, got %s", KindOf(raw))
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, errors.Wrap(err, "invalid JSON array")
	}
	return elements, nil
}

// Member of an Object: one key and its raw value.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object kept as the ordered list of its members, including repeated keys.
//
// The zero value is an empty object.
type Object []Member

var (
	_ json.Marshaler   = Object(nil)
	_ json.Unmarshaler = (*Object)(nil)
)

// Parse a raw JSON value that must be an object.
func Parse(raw json.RawMessage) (Object, error) {
	if KindOf(raw) != KindObject {
		return nil, errors.Errorf("expected an object, got %s", KindOf(raw))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "invalid JSON object")
	}
	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "invalid JSON object")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("invalid JSON object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, "invalid JSON value for key %q", key)
		}
		obj = append(obj, Member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "invalid JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON object: trailing data after the closing brace")
	}
	return obj, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. Members are written in order, repeated keys included.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for ii, m := range o {
		if ii > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(m.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(m.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value of the last member with the given key, matching encoding/json semantics
// for repeated keys.
func (o Object) Get(key string) (json.RawMessage, bool) {
	for ii := len(o) - 1; ii >= 0; ii-- {
		if o[ii].Key == key {
			return o[ii].Value, true
		}
	}
	return nil, false
}

// Has returns whether the object has a member with the given key.
func (o Object) Has(key string) bool {
	_, found := o.Get(key)
	return found
}

// Set the value of key, marshaling it if it is not already a json.RawMessage.
// It replaces every existing member with that key, or appends a new one.
func (o *Object) Set(key string, value any) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		var err error
		raw, err = json.Marshal(value)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal value for key %q", key)
		}
	}
	replaced := false
	for ii := range *o {
		if (*o)[ii].Key == key {
			(*o)[ii].Value = raw
			replaced = true
		}
	}
	if !replaced {
		*o = append(*o, Member{Key: key, Value: raw})
	}
	return nil
}

// Keys returns the keys in order, repeated keys included.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, m := range o {
		keys = append(keys, m.Key)
	}
	return keys
}

// Duplicates returns the keys that appear more than once, in the order they first repeat.
func (o Object) Duplicates() []string {
	seen := sets.Make[string](len(o))
	reported := sets.Make[string]()
	var dups []string
	for _, m := range o {
		if seen.Has(m.Key) && !reported.Has(m.Key) {
			dups = append(dups, m.Key)
			reported.Insert(m.Key)
		}
		seen.Insert(m.Key)
	}
	return dups
}

// Dedup returns a copy of the object keeping only the last member for each key.
func (o Object) Dedup() Object {
	last := make(map[string]int, len(o))
	for ii, m := range o {
		last[m.Key] = ii
	}
	deduped := make(Object, 0, len(last))
	for ii, m := range o {
		if last[m.Key] == ii {
			deduped = append(deduped, m)
		}
	}
	return deduped
}

// BoolOr returns the boolean value of key, or defaultValue if the key is absent.
// A present value that is not a JSON boolean is an error.
func (o Object) BoolOr(key string, defaultValue bool) (bool, error) {
	raw, found := o.Get(key)
	if !found {
		return defaultValue, nil
	}
	if KindOf(raw) != KindBool {
		return false, errors.Errorf("%q must be a boolean, got %s", key, KindOf(raw))
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, errors.Wrapf(err, "%q must be a boolean", key)
	}
	return v, nil
}

// StringOr returns the string value of key, or defaultValue if the key is absent.
// A present value that is not a JSON string is an error.
func (o Object) StringOr(key string, defaultValue string) (string, error) {
	raw, found := o.Get(key)
	if !found {
		return defaultValue, nil
	}
	if KindOf(raw) != KindString {
		return "", errors.Errorf("%q must be a string, got %s", key, KindOf(raw))
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", errors.Wrapf(err, "%q must be a string", key)
	}
	return v, nil
}

// IntOr returns the integer value of key, or defaultValue if the key is absent.
// A present value that is not a JSON integer is an error.
func (o Object) IntOr(key string, defaultValue int64) (int64, error) {
	raw, found := o.Get(key)
	if !found {
		return defaultValue, nil
	}
	v, err := Int(raw)
	if err != nil {
		return 0, errors.WithMessagef(err, "%q", key)
	}
	return v, nil
}
