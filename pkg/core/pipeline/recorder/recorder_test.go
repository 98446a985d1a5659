// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package recorder

import (
	"sync"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
)

var (
	imageAttr  = tensorattr.Attribute{Dimensions: []int{480, 640}, Channels: 3, Usage: tensorattr.UsageMat, DataType: tensorattr.Uint8}
	floatAttr  = tensorattr.Attribute{Dimensions: []int{28, 28}, Channels: 1, Usage: tensorattr.UsageMat, DataType: tensorattr.Float32}
	scalarAttr = tensorattr.Attribute{Dimensions: []int{1}, Channels: 1, Usage: tensorattr.UsageScalar, DataType: tensorattr.Int32}
)

func TestSession(t *testing.T) {
	s := NewSession()
	p0 := must.M1(s.NewPipeline())
	p1 := must.M1(s.NewPipeline())
	assert.NotSame(t, p0, p1)
	assert.Len(t, s.Pipelines(), 2)
	require.NoError(t, p0.(*Pipeline).Close())
	assert.Equal(t, []*Pipeline{p1.(*Pipeline)}, s.Live())
	assert.Len(t, s.Pipelines(), 2)
}

func TestSessionConcurrentClose(t *testing.T) {
	const numPipelines = 16
	s := NewSession()
	var wg sync.WaitGroup
	for range numPipelines {
		p := must.M1(s.NewPipeline()).(*Pipeline)
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := must.M1(p.NewTensor(imageAttr, false))
			b := must.M1(p.NewTensor(imageAttr, false))
			_ = p.Assignment(a, b)
			assert.NoError(t, p.Close())
		}()
	}
	for range numPipelines {
		_ = s.Live()
	}
	wg.Wait()
	assert.Empty(t, s.Live())
	assert.Len(t, s.Pipelines(), numPipelines)
}

func TestRecording(t *testing.T) {
	p := New()
	left := must.M1(p.NewTensor(imageAttr, false))
	right := must.M1(p.NewTensor(imageAttr, false))
	timestamp := must.M1(p.NewTensor(tensorattr.Attribute{Dimensions: []int{4}, Channels: 1,
		Usage: tensorattr.UsageTimestamp, DataType: tensorattr.Int32}, false))
	matrix := must.M1(p.NewTensor(tensorattr.Attribute{Dimensions: []int{3, 3}, Channels: 1,
		Usage: tensorattr.UsageMat, DataType: tensorattr.Float32}, false))
	affine := must.M1(p.NewTensor(tensorattr.Attribute{Dimensions: []int{2, 3}, Channels: 1,
		Usage: tensorattr.UsageMat, DataType: tensorattr.Float32}, false))
	crop := must.M1(p.NewTensor(imageAttr, false))
	gray := must.M1(p.NewTensor(imageAttr, false))
	normalized := must.M1(p.NewTensor(floatAttr, true))
	gltf := must.M1(p.NewGLTFPlaceholder())

	assert.True(t, normalized.IsPlaceholder())
	assert.True(t, gltf.IsPlaceholder())
	assert.True(t, pipeline.IsGLTF(gltf))
	assert.Equal(t, "#8 glTF (placeholder)", gltf.(*Tensor).String())
	assert.Equal(t, "#0 (Uint8)[480 640] x3 Mat", left.(*Tensor).String())

	src := pipeline.AffinePoints{0, 0, 1, 0, 0, 1}
	dst := pipeline.AffinePoints{0, 0, 2, 0, 0, 2}
	require.NoError(t, p.CameraAccess(right, left, timestamp, matrix))
	require.NoError(t, p.GetAffine(src, dst, affine))
	require.NoError(t, p.ApplyAffine(affine, left, crop))
	require.NoError(t, p.CvtColor(7, crop, gray))
	require.NoError(t, p.TypeConvert(gray, normalized))
	require.NoError(t, p.Arithmetic("({0} / 255.0)", []pipeline.Tensor{normalized}, normalized))
	require.NoError(t, p.Assignment(crop, gray))

	ops := p.Ops()
	require.Len(t, ops, 7)
	assert.Equal(t, pipeline.OpTypeCameraAccess, ops[0].Type)
	assert.Empty(t, ops[0].Inputs)
	assert.Len(t, ops[0].Outputs, 4)
	assert.Equal(t, src, ops[1].Src)
	assert.Equal(t, dst, ops[1].Dst)
	assert.Equal(t, "apply_affine(#4, #0) -> (#5)", ops[2].String())
	assert.Equal(t, 7, ops[3].Flag)
	assert.Equal(t, "({0} / 255.0)", ops[5].Expression)
	assert.Contains(t, p.String(), "tensor #7 (Float32)[28 28] x1 Mat (placeholder)")

	// Attributes are copied.
	attr := imageAttr.Clone()
	tensor := must.M1(p.NewTensor(attr, false))
	attr.Dimensions[0] = 1
	assert.Equal(t, 480, tensor.Attribute().Dimensions[0])
}

func TestInvalidOperands(t *testing.T) {
	p, other := New(), New()
	a := must.M1(p.NewTensor(imageAttr, false))
	b := must.M1(other.NewTensor(imageAttr, false))
	gltf := must.M1(p.NewGLTFPlaceholder())

	assert.ErrorContains(t, p.Assignment(a, b), "different pipeline")
	assert.ErrorContains(t, p.Assignment(a, gltf), "glTF")
	assert.ErrorContains(t, p.Assignment(a, nil), "not created by a recorder")
	assert.ErrorContains(t, p.Arithmetic("{0} + {1}", []pipeline.Tensor{a}, a), "only 1 operands")
	assert.Empty(t, p.Ops())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
	assert.Empty(t, p.Tensors())
	_, err := p.NewTensor(imageAttr, false)
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(p.TypeConvert(a, a), ErrClosed))
}

func TestRunAlgorithm(t *testing.T) {
	p := New()
	in := must.M1(p.NewTensor(floatAttr, false))
	score := must.M1(p.NewTensor(tensorattr.Attribute{Dimensions: []int{1}, Channels: 1,
		Usage: tensorattr.UsageScalar, DataType: tensorattr.Float32}, false))
	class := must.M1(p.NewTensor(scalarAttr, false))
	model := pipeline.Model{Name: "mnist", Buffer: []byte{1, 2, 3}}

	require.NoError(t, p.RunAlgorithm(model,
		[]pipeline.Binding{{Alias: "input_1", Tensor: in}},
		[]pipeline.Binding{{Alias: "_538", Tensor: score}, {Alias: "_539", Tensor: class}}))
	ops := p.Ops()
	require.Len(t, ops, 1)
	op := ops[0]
	assert.Equal(t, pipeline.OpTypeRunAlgorithm, op.Type)
	assert.Equal(t, "mnist", op.ModelName)
	assert.Equal(t, 3, op.ModelSize)
	assert.Equal(t, []IOMap{{Alias: "input_1", Tensor: in.(*Tensor), Encoding: pipeline.EncodingFloat32}}, op.ModelInputs)
	require.Len(t, op.ModelOutputs, 2)
	assert.Equal(t, pipeline.EncodingInt32, op.ModelOutputs[1].Encoding)
	assert.Len(t, op.Inputs, 1)
	assert.Len(t, op.Outputs, 2)

	// Invalid models and bindings.
	assert.Error(t, p.RunAlgorithm(pipeline.Model{Name: "empty"}, nil, nil))
	gltf := must.M1(p.NewGLTFPlaceholder())
	err := p.RunAlgorithm(model, []pipeline.Binding{{Alias: "x", Tensor: gltf}}, nil)
	assert.ErrorContains(t, err, "glTF")
	wide := must.M1(p.NewTensor(tensorattr.Attribute{Dimensions: []int{1}, Channels: 1, DataType: tensorattr.Float64}, false))
	err = p.RunAlgorithm(model, nil, []pipeline.Binding{{Alias: "y", Tensor: wide}})
	assert.ErrorContains(t, err, "Float64")
	assert.Len(t, p.Ops(), 1)
}
