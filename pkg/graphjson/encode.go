// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package graphjson

import (
	"encoding/json"

	"github.com/janpfeifer/must"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
	"github.com/xrgraph/xrgraph/pkg/core/tensorlist"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
	"github.com/xrgraph/xrgraph/pkg/support/sets"
)

// Encode the description as a pipeline document, in the same shape the decoder consumes.
//
// Tensors are written in declaration order, each with tensorattr.EncodeVariant plus "is_placeholder"
// when set. glTF placeholders are always written as placeholders. Operators are written in order.
//
// Encode validates the description as the decoder would: tensor names must be unique and not empty,
// and the built-in operators must only refer to declared tensors. The output is compact, see
// jsonfile.Write to write it pretty-printed.
func Encode(desc *Description) (Document, error) {
	declared := sets.Make[string](len(desc.Tensors))
	tensors := make(jsonobj.Object, 0, len(desc.Tensors))
	for _, decl := range desc.Tensors {
		if decl.Name == "" {
			return nil, documentError("tensor with empty name")
		}
		if declared.Has(decl.Name) {
			e := documentError("tensor %q declared more than once", decl.Name)
			e.Tensor = decl.Name
			return nil, e
		}
		declared.Insert(decl.Name)
		entry := must.M1(jsonobj.Parse(tensorattr.EncodeVariant(decl.Attribute)))
		if decl.IsGLTF() || decl.Placeholder {
			must.M(entry.Set(KeyPlaceholder, true))
		}
		tensors = append(tensors, jsonobj.Member{Key: decl.Name, Value: must.M1(json.Marshal(entry))})
	}

	operators := make([]json.RawMessage, 0, len(desc.Operators))
	for ii, op := range desc.Operators {
		fields, err := encodeOperator(ii, op, declared)
		if err != nil {
			return nil, err
		}
		operators = append(operators, must.M1(json.Marshal(fields)))
	}

	var root jsonobj.Object
	if len(desc.Metadata) > 0 {
		if !json.Valid(desc.Metadata) {
			return nil, documentError("%s is not valid JSON", KeyMetadata)
		}
		must.M(root.Set(KeyMetadata, desc.Metadata))
	}
	must.M(root.Set(KeyTensors, tensors))
	must.M(root.Set(KeyOperators, operators))
	return json.Marshal(root)
}

// encodeOperator returns the record of op, with "type" as its first field.
func encodeOperator(index int, op Operator, declared sets.Set[string]) (jsonobj.Object, error) {
	rec := Record{Index: index, Fields: jsonobj.Object{}}
	if op == nil {
		return nil, operatorError(MalformedOperatorParams, rec, nil, "nil operator")
	}
	rec.Type = op.Type()
	set := func(key string, value any) {
		must.M(rec.Fields.Set(key, value))
	}
	set(KeyType, rec.Type)

	switch op := op.(type) {
	case CameraAccess:
		set(KeyOutputs, tensorlist.EncodeList(op.Outputs()))
	case GetAffine:
		set(KeySrcPoints, tensorlist.EncodeFloats(op.SrcPoints[:]))
		set(KeyDstPoints, tensorlist.EncodeFloats(op.DstPoints[:]))
		set(KeyOutputs, tensorlist.EncodeList(op.Outputs()))
	case ApplyAffine, Assignment, TypeConvert:
		set(KeyInputs, tensorlist.EncodeList(op.Inputs()))
		set(KeyOutputs, tensorlist.EncodeList(op.Outputs()))
	case CvtColor:
		set(KeyFlag, op.Flag)
		set(KeyInputs, tensorlist.EncodeList(op.Inputs()))
		set(KeyOutputs, tensorlist.EncodeList(op.Outputs()))
	case Arithmetic:
		set(KeyExpression, op.Expression)
		set(KeyInputs, tensorlist.EncodeList(op.Inputs()))
		set(KeyOutputs, tensorlist.EncodeList(op.Outputs()))
	case Custom:
		if rec.Type == "" {
			return nil, operatorError(MalformedOperatorParams, rec, nil, "custom operator without a type")
		}
		if _, builtin := builtinOpType(rec.Type); builtin {
			return nil, operatorError(MalformedOperatorParams, rec, nil,
				"custom operator can't use the built-in type %q", rec.Type)
		}
		for _, m := range op.Record.Fields {
			if m.Key != KeyType {
				rec.Fields = append(rec.Fields, m)
			}
		}
		return rec.Fields, nil
	default:
		return nil, operatorError(MalformedOperatorParams, rec, nil, "operator %T can't be encoded", op)
	}

	refs := append(op.Inputs(), op.Outputs()...)
	if missing := declared.Missing(refs...); len(missing) > 0 {
		return nil, unknownTensorError(rec, missing[0])
	}
	return rec.Fields, nil
}
