// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package tensorattr defines Attribute, the descriptor of a pipeline tensor: its dimensions,
// channels per element, usage and element data type. It also implements its JSON encoding.
//
// Usage and DataType are integer codes shared with the execution engine. Codes this package
// doesn't know about are preserved as they are, so documents written for newer engines still
// decode.
package tensorattr

import (
	"fmt"
	"slices"
)

// Usage is the role of a tensor in the pipeline.
type Usage int32

const (
	UsageUnspecified Usage = iota

	// UsagePoint is an array of 2D (XY) or 3D (XYZ) points, the number of coordinates given by the channels.
	UsagePoint

	// UsageScalar is an array of scalars.
	UsageScalar

	// UsageSlice is an array of ranges (start, end, optional step) used to index other tensors.
	UsageSlice

	// UsageColor is an array of RGB or RGBA colors.
	UsageColor

	// UsageTimestamp holds the 4 integers of a frame timestamp.
	UsageTimestamp

	// UsageMat is a matrix or an image.
	UsageMat

	// UsageGLTF is an externally managed glTF asset.
	UsageGLTF
)

var usageNames = []string{"Unspecified", "Point", "Scalar", "Slice", "Color", "Timestamp", "Mat", "GLTF"}

// String implements fmt.Stringer. Unknown codes are printed as "Usage(<code>)".
func (u Usage) String() string {
	if u >= 0 && int(u) < len(usageNames) {
		return usageNames[u]
	}
	return fmt.Sprintf("Usage(%d)", int32(u))
}

// IsKnown returns whether u is one of the usages defined in this package.
func (u Usage) IsKnown() bool {
	return u >= 0 && int(u) < len(usageNames)
}

// DataType is the type of each channel of a tensor element.
type DataType int32

const (
	InvalidDataType DataType = iota
	Uint8
	Int8
	Uint16
	Int16
	Int32
	Float32
	Float64
)

var dataTypeNames = []string{"InvalidDataType", "Uint8", "Int8", "Uint16", "Int16", "Int32", "Float32", "Float64"}

// String implements fmt.Stringer. Unknown codes are printed as "DataType(<code>)".
func (dt DataType) String() string {
	if dt >= 0 && int(dt) < len(dataTypeNames) {
		return dataTypeNames[dt]
	}
	return fmt.Sprintf("DataType(%d)", int32(dt))
}

// IsKnown returns whether dt is one of the data types defined in this package.
func (dt DataType) IsKnown() bool {
	return dt > InvalidDataType && int(dt) < len(dataTypeNames)
}

// Size returns the number of bytes of one channel value, or 0 for invalid or unknown codes.
func (dt DataType) Size() int {
	switch dt {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Attribute describes a concrete tensor. All four fields are always specified together.
type Attribute struct {
	// Dimensions of the tensor, one entry per axis.
	Dimensions []int

	// Channels is the number of values per element, e.g.: 3 for an RGB image.
	Channels int8

	Usage    Usage
	DataType DataType
}

// Rank is the number of dimensions.
func (a Attribute) Rank() int {
	return len(a.Dimensions)
}

// Size returns the number of values in the tensor: the product of the dimensions times the channels.
func (a Attribute) Size() int {
	size := int(a.Channels)
	for _, dim := range a.Dimensions {
		size *= dim
	}
	return size
}

// Memory returns the number of bytes used by the tensor values. It is 0 for unknown data types.
func (a Attribute) Memory() uintptr {
	return uintptr(a.Size() * a.DataType.Size())
}

// Equal returns whether a and b describe the same tensor.
func (a Attribute) Equal(b Attribute) bool {
	return a.Channels == b.Channels && a.Usage == b.Usage && a.DataType == b.DataType &&
		slices.Equal(a.Dimensions, b.Dimensions)
}

// Clone returns a deep copy of the attribute.
func (a Attribute) Clone() Attribute {
	a.Dimensions = slices.Clone(a.Dimensions)
	return a
}

// String implements fmt.Stringer, e.g.: "(Uint8)[480 640] x3 Mat".
func (a Attribute) String() string {
	return fmt.Sprintf("(%s)%v x%d %s", a.DataType, a.Dimensions, a.Channels, a.Usage)
}
