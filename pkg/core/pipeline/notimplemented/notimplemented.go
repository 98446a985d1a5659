// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package notimplemented implements a pipeline.Pipeline that returns ErrNotImplemented for all operations.
//
// It can be embedded to bootstrap an engine that supports only some of the operators.
package notimplemented

import (
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
)

// ErrNotImplemented is returned by every method.
//
// It doesn't contain a stack, attach a stack to it with errors.Wrapf(ErrNotImplemented, "...") when using it.
var ErrNotImplemented = pipeline.ErrNotImplemented

// Session creates notimplemented Pipelines.
type Session struct {
	// ErrFn is passed along to the Pipelines created.
	ErrFn func(op pipeline.OpType) error
}

var _ pipeline.Session = Session{}

// NewPipeline returns a Pipeline with the session's ErrFn.
func (s Session) NewPipeline() (pipeline.Pipeline, error) {
	return Pipeline{ErrFn: s.ErrFn}, nil
}

// Pipeline implements pipeline.Pipeline and returns ErrNotImplemented for every operation.
type Pipeline struct {
	// ErrFn is called to generate the error returned by operators, if not nil.
	// Otherwise ErrNotImplemented is returned directly.
	ErrFn func(op pipeline.OpType) error
}

var _ pipeline.Pipeline = Pipeline{}

// baseErrFn returns the error corresponding to the op.
// It falls back to Pipeline.ErrFn if it is defined.
func (p Pipeline) baseErrFn(op pipeline.OpType) error {
	if p.ErrFn == nil {
		return ErrNotImplemented
	}
	return p.ErrFn(op)
}

func (p Pipeline) NewTensor(attr tensorattr.Attribute, placeholder bool) (pipeline.Tensor, error) {
	return nil, errors.Wrapf(ErrNotImplemented, "in NewTensor(%s)", attr)
}

func (p Pipeline) NewGLTFPlaceholder() (pipeline.Tensor, error) {
	return nil, errors.Wrapf(ErrNotImplemented, "in NewGLTFPlaceholder()")
}

func (p Pipeline) CameraAccess(rightEye, leftEye, timestamp, cameraMatrix pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeCameraAccess)
}

func (p Pipeline) GetAffine(src, dst pipeline.AffinePoints, affine pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeGetAffine)
}

func (p Pipeline) ApplyAffine(affine, src, dst pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeApplyAffine)
}

func (p Pipeline) Assignment(src, dst pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeAssignment)
}

func (p Pipeline) CvtColor(flag int, src, dst pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeCvtColor)
}

func (p Pipeline) TypeConvert(src, dst pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeTypeConvert)
}

func (p Pipeline) Arithmetic(expression string, operands []pipeline.Tensor, result pipeline.Tensor) error {
	return p.baseErrFn(pipeline.OpTypeArithmetic)
}
