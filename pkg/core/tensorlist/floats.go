// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package tensorlist

import (
	"encoding/json"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
)

// ErrMalformedFloats is returned (wrapped) when a fixed-size float array can't be decoded.
var ErrMalformedFloats = errors.New("malformed float array")

// AffinePointsSize is the number of floats of an affine correspondence: three 2D points, row-major.
const AffinePointsSize = 6

// EncodeFloats encodes values as a JSON array of numbers.
func EncodeFloats(values []float32) json.RawMessage {
	if values == nil {
		values = []float32{}
	}
	return must.M1(json.Marshal(values))
}

// DecodeFloats decodes a JSON array of exactly n numbers.
// Unlike the tensor name lists, this is always strict.
func DecodeFloats(raw json.RawMessage, n int) ([]float32, error) {
	elements, err := jsonobj.Array(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedFloats, "%v", err)
	}
	if len(elements) != n {
		return nil, errors.Wrapf(ErrMalformedFloats, "expected %d numbers, got %d values", n, len(elements))
	}
	values := make([]float32, n)
	for ii, element := range elements {
		v, err := jsonobj.Float(element)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedFloats, "element #%d: %v", ii, err)
		}
		values[ii] = float32(v)
	}
	return values, nil
}

// DecodeAffinePoints decodes the AffinePointsSize floats of three 2D points.
func DecodeAffinePoints(raw json.RawMessage) (points [AffinePointsSize]float32, err error) {
	values, err := DecodeFloats(raw, AffinePointsSize)
	if err != nil {
		return
	}
	copy(points[:], values)
	return
}
