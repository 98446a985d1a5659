// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
	"k8s.io/klog/v2"
)

// ModelEncoding is how a tensor is presented to a model input or output.
type ModelEncoding int

//go:generate go tool enumer -type=ModelEncoding -trimprefix=Encoding -output=gen_modelencoding_enumer.go encoding.go

const (
	EncodingInvalid ModelEncoding = iota
	EncodingUFixedPoint8
	EncodingSFixedPoint8
	EncodingUFixedPoint16
	EncodingInt32
	EncodingFloat32
)

// ModelEncodingFor returns the encoding used to bind t to a model.
//
// glTF placeholders can't be bound, and neither can Float64 tensors. Int16 tensors are bound as
// unsigned 16 bits fixed point, with a warning.
func ModelEncodingFor(t Tensor) (ModelEncoding, error) {
	attr := t.Attribute()
	if attr == nil {
		return EncodingInvalid, errors.New("glTF placeholders can't be bound to a model")
	}
	switch attr.DataType {
	case tensorattr.Uint8:
		return EncodingUFixedPoint8, nil
	case tensorattr.Int8:
		return EncodingSFixedPoint8, nil
	case tensorattr.Int16:
		klog.Warningf("Int16 tensor %s bound to a model will be interpreted as unsigned 16 bits fixed point", attr)
		return EncodingUFixedPoint16, nil
	case tensorattr.Uint16:
		return EncodingUFixedPoint16, nil
	case tensorattr.Int32:
		return EncodingInt32, nil
	case tensorattr.Float32:
		return EncodingFloat32, nil
	default:
		return EncodingInvalid, errors.Errorf("data type %s can't be bound to a model", attr.DataType)
	}
}
