// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package graphjson converts pipeline documents, JSON descriptions of a dataflow pipeline, into
// pipelines built through a pipeline.Session, and serializes pipeline descriptions back to JSON.
//
// A document is a JSON object with two required sections and an optional one:
//
//	{
//	  "metadata": {"version": 1},
//	  "tensors": {
//	    "image": {"dimensions": [480, 640], "channels": 3, "usage": 6, "data_type": 1, "is_placeholder": true},
//	    "gray": {"dimensions": [480, 640], "channels": 1, "usage": 6, "data_type": 1},
//	    "label": {"is_gltf": true, "is_placeholder": true}
//	  },
//	  "operators": [
//	    {"type": "cvt_color", "flag": 7, "inputs": ["image"], "outputs": ["gray"]}
//	  ]
//	}
//
// Tensors are declared in the "tensors" object, and every tensor an operator refers to must be
// declared there. Operators are applied in order. The built-in operator types are camera_access,
// get_affine, apply_affine, assignment, cvt_color, type_convert and arithmetic. Records of any other
// type are offered to an OperatorHandler (see Decoder.WithHandler and Mux).
//
// Decoding is atomic: on failure no Pipeline is returned, and the partially built one is closed
// if it implements io.Closer. Errors are returned as *Error, see ErrorKind.
package graphjson

import (
	"encoding/json"
	"slices"

	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
)

// Document is a raw pipeline document.
type Document = json.RawMessage

// Keys used in pipeline documents.
const (
	KeyMetadata    = "metadata"
	KeyTensors     = "tensors"
	KeyOperators   = "operators"
	KeyPlaceholder = "is_placeholder"
	KeyType        = "type"
	KeyInputs      = "inputs"
	KeyOutputs     = "outputs"
	KeySrcPoints   = "src_points"
	KeyDstPoints   = "dst_points"
	KeyFlag        = "flag"
	KeyExpression  = "expression"
)

// TensorDecl is the declaration of a named tensor.
type TensorDecl struct {
	Name string

	// Attribute of a typed tensor, or nil for an external glTF asset placeholder.
	Attribute *tensorattr.Attribute

	// Placeholder tensors are bound by the caller when the pipeline is submitted.
	// glTF tensors are always placeholders.
	Placeholder bool
}

// IsGLTF returns whether the declaration is of an external glTF asset placeholder.
func (d TensorDecl) IsGLTF() bool {
	return d.Attribute == nil
}

// Description of a pipeline: what a document holds, decoded.
//
// Decoding produces one, and Encode serializes one. It can also be built programmatically:
//
//	desc := &graphjson.Description{}
//	desc.AddTensor("image", imageAttr, true).
//		AddTensor("gray", grayAttr, false).
//		Add(graphjson.CvtColor{Flag: 7, Source: "image", Output: "gray"})
type Description struct {
	// Metadata is the raw "metadata" section, not interpreted. It may be nil.
	Metadata json.RawMessage

	Tensors   []TensorDecl
	Operators []Operator
}

// AddTensor appends the declaration of a typed tensor.
func (d *Description) AddTensor(name string, attr tensorattr.Attribute, placeholder bool) *Description {
	attr = attr.Clone()
	d.Tensors = append(d.Tensors, TensorDecl{Name: name, Attribute: &attr, Placeholder: placeholder})
	return d
}

// AddGLTFPlaceholder appends the declaration of an external glTF asset placeholder.
func (d *Description) AddGLTFPlaceholder(name string) *Description {
	d.Tensors = append(d.Tensors, TensorDecl{Name: name, Placeholder: true})
	return d
}

// Add appends operators.
func (d *Description) Add(ops ...Operator) *Description {
	d.Operators = append(d.Operators, ops...)
	return d
}

// SetMetadata sets the "metadata" section to the JSON encoding of v.
func (d *Description) SetMetadata(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode metadata")
	}
	d.Metadata = raw
	return nil
}

// Tensor returns the declaration with the given name.
func (d *Description) Tensor(name string) (TensorDecl, bool) {
	idx := slices.IndexFunc(d.Tensors, func(decl TensorDecl) bool { return decl.Name == name })
	if idx < 0 {
		return TensorDecl{}, false
	}
	return d.Tensors[idx], true
}

// TensorNames returns the names of the declared tensors, in order.
func (d *Description) TensorNames() []string {
	names := make([]string, len(d.Tensors))
	for ii, decl := range d.Tensors {
		names[ii] = decl.Name
	}
	return names
}

// Result of a successful Decoder.Decode.
type Result struct {
	// Pipeline built, owned by the caller.
	Pipeline pipeline.Pipeline

	// Tensors maps the declared names to the tensors created in Pipeline, so callers can bind the
	// placeholders and outputs they care about.
	Tensors map[string]pipeline.Tensor

	// Description of the decoded document.
	Description *Description
}

// Tensor returns the tensor declared with the given name, or an UnknownTensor error.
func (r *Result) Tensor(name string) (pipeline.Tensor, error) {
	t, found := r.Tensors[name]
	if !found {
		return nil, &Error{Kind: UnknownTensor, Operator: -1, Tensor: name, Msg: "tensor '" + name + "' not found"}
	}
	return t, nil
}
