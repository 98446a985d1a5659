// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package tensorattr

import (
	"encoding/json"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
	"golang.org/x/exp/constraints"
)

// JSON keys of an encoded Attribute.
const (
	KeyDimensions = "dimensions"
	KeyChannels   = "channels"
	KeyUsage      = "usage"
	KeyDataType   = "data_type"

	// KeyGLTF marks a tensor declaration with no attribute: an external glTF asset.
	KeyGLTF = "is_gltf"
)

// ErrMalformed is returned (wrapped) by Decode when the JSON value is not a valid attribute.
var ErrMalformed = errors.New("malformed tensor attribute")

// wireAttribute fixes the order of the keys in the encoding.
type wireAttribute struct {
	Dimensions []int `json:"dimensions"`
	Channels   int8  `json:"channels"`
	Usage      int32 `json:"usage"`
	DataType   int32 `json:"data_type"`
}

// Encode the attribute as a JSON object with the keys "dimensions", "channels", "usage" and "data_type".
// Usage and data type are written as their integer codes.
func Encode(attr Attribute) json.RawMessage {
	w := wireAttribute{
		Dimensions: attr.Dimensions,
		Channels:   attr.Channels,
		Usage:      int32(attr.Usage),
		DataType:   int32(attr.DataType),
	}
	if w.Dimensions == nil {
		w.Dimensions = []int{}
	}
	return must.M1(json.Marshal(w))
}

// EncodeVariant encodes the attribute of any tensor declaration: a nil attribute, used for glTF
// placeholders, is encoded as {"is_gltf":true}, anything else as in Encode.
func EncodeVariant(attr *Attribute) json.RawMessage {
	if attr == nil {
		return json.RawMessage(`{"` + KeyGLTF + `":true}`)
	}
	return Encode(*attr)
}

// Decode an Attribute from a JSON object.
//
// All four keys are required, and all values must be JSON integers. Channels, usage and data type are
// narrowed to their storage width, and codes are not checked against the known values.
// Any other keys in the object are ignored.
//
// Errors wrap ErrMalformed.
func Decode(raw json.RawMessage) (Attribute, error) {
	obj, err := jsonobj.Parse(raw)
	if err != nil {
		return Attribute{}, errors.Wrapf(ErrMalformed, "%v", err)
	}
	return DecodeObject(obj)
}

// DecodeObject is like Decode, for an already parsed object.
func DecodeObject(obj jsonobj.Object) (Attribute, error) {
	var attr Attribute
	for _, key := range []string{KeyDimensions, KeyChannels, KeyUsage, KeyDataType} {
		if !obj.Has(key) {
			return Attribute{}, errors.Wrapf(ErrMalformed, "missing %q", key)
		}
	}

	rawDims, _ := obj.Get(KeyDimensions)
	elements, err := jsonobj.Array(rawDims)
	if err != nil {
		return Attribute{}, errors.Wrapf(ErrMalformed, "%q: %v", KeyDimensions, err)
	}
	attr.Dimensions = make([]int, 0, len(elements))
	for axis, element := range elements {
		dim, err := jsonobj.Int(element)
		if err != nil {
			return Attribute{}, errors.Wrapf(ErrMalformed, "%q axis #%d: %v", KeyDimensions, axis, err)
		}
		attr.Dimensions = append(attr.Dimensions, narrow[int](dim))
	}

	if attr.Channels, err = intField[int8](obj, KeyChannels); err != nil {
		return Attribute{}, err
	}
	usage, err := intField[int32](obj, KeyUsage)
	if err != nil {
		return Attribute{}, err
	}
	attr.Usage = Usage(usage)
	dtype, err := intField[int32](obj, KeyDataType)
	if err != nil {
		return Attribute{}, err
	}
	attr.DataType = DataType(dtype)
	return attr, nil
}

func intField[T constraints.Integer](obj jsonobj.Object, key string) (T, error) {
	raw, _ := obj.Get(key)
	v, err := jsonobj.Int(raw)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "%q: %v", key, err)
	}
	return narrow[T](v), nil
}

// narrow converts v to the storage width of T, truncating the high bits as a C cast would.
func narrow[T constraints.Integer](v int64) T {
	return T(v)
}
