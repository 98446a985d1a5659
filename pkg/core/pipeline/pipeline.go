// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package pipeline defines the interfaces a decoded graph is built into.
//
// A Session creates Pipelines, and a Pipeline creates tensors and records one call per operator.
// Nothing here executes anything: an execution engine implements these interfaces and runs the
// recorded pipeline later. See package recorder for an in-memory implementation, and package
// notimplemented for a base to embed when bootstrapping a new engine.
package pipeline

import (
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
)

// ErrNotImplemented is returned by engines for operations they don't support.
var ErrNotImplemented = errors.New("not implemented")

// Tensor is a handle to a tensor owned by a Pipeline.
type Tensor interface {
	// Attribute returns the tensor attribute, or nil for a glTF placeholder.
	Attribute() *tensorattr.Attribute

	// IsPlaceholder returns whether the tensor storage is bound by the caller when the pipeline is
	// submitted, instead of being fixed when the pipeline is built.
	IsPlaceholder() bool
}

// IsGLTF returns whether t is an external glTF asset placeholder.
func IsGLTF(t Tensor) bool {
	return t.Attribute() == nil
}

// AffinePoints are three 2D points, row-major: x0, y0, x1, y1, x2, y2.
type AffinePoints [6]float32

// Pipeline is the builder of one pipeline.
//
// Operator methods take tensors created by the same Pipeline. Errors returned abort the build:
// the caller discards the Pipeline, calling Close if it implements io.Closer.
type Pipeline interface {
	// NewTensor creates a tensor with the given attribute.
	NewTensor(attr tensorattr.Attribute, placeholder bool) (Tensor, error)

	// NewGLTFPlaceholder creates a placeholder for an external glTF asset.
	NewGLTFPlaceholder() (Tensor, error)

	// CameraAccess binds the outputs of the camera: right and left eye images, the timestamp of the
	// frame and the camera matrix.
	CameraAccess(rightEye, leftEye, timestamp, cameraMatrix Tensor) error

	// GetAffine computes the affine transform mapping the src points into the dst points.
	GetAffine(src, dst AffinePoints, affine Tensor) error

	// ApplyAffine warps src by the affine transform into dst.
	ApplyAffine(affine, src, dst Tensor) error

	// Assignment copies src into dst.
	Assignment(src, dst Tensor) error

	// CvtColor converts the color space of src into dst. The flag is the engine's conversion code.
	CvtColor(flag int, src, dst Tensor) error

	// TypeConvert casts the elements of src into the data type of dst.
	TypeConvert(src, dst Tensor) error

	// Arithmetic evaluates expression into result. The expression refers to its operands
	// by position, e.g.: "({0} / 255.0)".
	Arithmetic(expression string, operands []Tensor, result Tensor) error
}

// Session creates pipelines. It owns the device/session resources the pipelines run on.
type Session interface {
	NewPipeline() (Pipeline, error)
}

// Model to be run by an AlgorithmRunner.
type Model struct {
	// Name of the model, as known by the engine.
	Name string

	// Buffer holds the serialized model package.
	Buffer []byte
}

// Binding presents a pipeline tensor to a model under the model's own name for it.
type Binding struct {
	Alias  string
	Tensor Tensor
}

// AlgorithmRunner is implemented by pipelines able to run models.
type AlgorithmRunner interface {
	RunAlgorithm(model Model, inputs, outputs []Binding) error
}
