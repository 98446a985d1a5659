// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package graphjson

import (
	"encoding/json"

	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorlist"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
)

// Operator is one step of a pipeline Description.
//
// The implementations are the built-in operators (CameraAccess, GetAffine, ApplyAffine, Assignment,
// CvtColor, TypeConvert, Arithmetic) and Custom, which carries the raw record of any other operator.
// Operators are used by value.
type Operator interface {
	// Type returns the operator type used in documents, e.g.: "camera_access".
	Type() string

	// Inputs returns the names of the tensors read by the operator.
	Inputs() []string

	// Outputs returns the names of the tensors written by the operator.
	Outputs() []string

	isOperator()
}

// Record is the raw record of an operator, as found in the "operators" array.
type Record struct {
	// Index of the record in the "operators" array.
	Index int

	// Type of the operator, empty if the record has none.
	Type string

	// Fields of the record, "type" included.
	Fields jsonobj.Object
}

// Field returns the raw value of the given key, or nil if absent.
func (r Record) Field(key string) json.RawMessage {
	value, _ := r.Fields.Get(key)
	return value
}

// CameraAccess binds the four outputs of the camera.
type CameraAccess struct {
	RightEye, LeftEye, Timestamp, CameraMatrix string
}

// GetAffine computes the affine transform mapping three SrcPoints into three DstPoints.
type GetAffine struct {
	SrcPoints, DstPoints pipeline.AffinePoints
	Output               string
}

// ApplyAffine warps Source by the Affine transform into Output.
type ApplyAffine struct {
	Affine, Source, Output string
}

// Assignment copies Source into Output.
type Assignment struct {
	Source, Output string
}

// CvtColor converts the color space of Source into Output. Flag is the engine's conversion code.
type CvtColor struct {
	Flag           int
	Source, Output string
}

// TypeConvert casts the elements of Source into the data type of Output.
type TypeConvert struct {
	Source, Output string
}

// Arithmetic evaluates Expression over Operands into Output. The expression refers to the operands
// by position, e.g.: "({0} / 255.0)".
type Arithmetic struct {
	Expression string
	Operands   []string
	Output     string
}

// Custom is an operator outside the built-in set, handled by an OperatorHandler.
type Custom struct {
	Record Record
}

// NewCustom creates a Custom operator of the given type with the given fields.
// A "type" member in fields is ignored.
func NewCustom(opType string, fields jsonobj.Object) Custom {
	rec := Record{Index: -1, Type: opType, Fields: jsonobj.Object{}}
	_ = rec.Fields.Set(KeyType, opType)
	for _, m := range fields {
		if m.Key != KeyType {
			rec.Fields = append(rec.Fields, m)
		}
	}
	return Custom{Record: rec}
}

// builtinOpType returns the built-in operator whose document name is exactly opType.
func builtinOpType(opType string) (pipeline.OpType, bool) {
	op, err := pipeline.OpTypeString(opType)
	if err != nil || !op.IsBuiltin() || op.String() != opType {
		return pipeline.OpTypeInvalid, false
	}
	return op, true
}

func (CameraAccess) Type() string { return pipeline.OpTypeCameraAccess.String() }
func (GetAffine) Type() string    { return pipeline.OpTypeGetAffine.String() }
func (ApplyAffine) Type() string  { return pipeline.OpTypeApplyAffine.String() }
func (Assignment) Type() string   { return pipeline.OpTypeAssignment.String() }
func (CvtColor) Type() string     { return pipeline.OpTypeCvtColor.String() }
func (TypeConvert) Type() string  { return pipeline.OpTypeTypeConvert.String() }
func (Arithmetic) Type() string   { return pipeline.OpTypeArithmetic.String() }
func (c Custom) Type() string     { return c.Record.Type }

func (CameraAccess) Inputs() []string  { return nil }
func (GetAffine) Inputs() []string     { return nil }
func (a ApplyAffine) Inputs() []string { return []string{a.Affine, a.Source} }
func (a Assignment) Inputs() []string  { return []string{a.Source} }
func (c CvtColor) Inputs() []string    { return []string{c.Source} }
func (c TypeConvert) Inputs() []string { return []string{c.Source} }
func (a Arithmetic) Inputs() []string  { return append([]string(nil), a.Operands...) }

// Inputs of a custom operator are read leniently from its "inputs" field, which may be a plain or
// a mapped list.
func (c Custom) Inputs() []string {
	return customList(c.Record.Field(KeyInputs))
}

func (c CameraAccess) Outputs() []string {
	return []string{c.RightEye, c.LeftEye, c.Timestamp, c.CameraMatrix}
}
func (g GetAffine) Outputs() []string   { return []string{g.Output} }
func (a ApplyAffine) Outputs() []string { return []string{a.Output} }
func (a Assignment) Outputs() []string  { return []string{a.Output} }
func (c CvtColor) Outputs() []string    { return []string{c.Output} }
func (c TypeConvert) Outputs() []string { return []string{c.Output} }
func (a Arithmetic) Outputs() []string  { return []string{a.Output} }

// Outputs of a custom operator are read leniently from its "outputs" field, which may be a plain or
// a mapped list.
func (c Custom) Outputs() []string {
	return customList(c.Record.Field(KeyOutputs))
}

func customList(raw json.RawMessage) []string {
	mapping, _ := tensorlist.DecodeMapped(raw, false)
	return tensorlist.Tensors(mapping)
}

func (CameraAccess) isOperator() {}
func (GetAffine) isOperator()    {}
func (ApplyAffine) isOperator()  {}
func (Assignment) isOperator()   {}
func (CvtColor) isOperator()     {}
func (TypeConvert) isOperator()  {}
func (Arithmetic) isOperator()   {}
func (Custom) isOperator()       {}
