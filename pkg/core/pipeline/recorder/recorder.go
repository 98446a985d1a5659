// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package recorder implements pipeline.Session and pipeline.Pipeline by recording the tensors
// created and the operators applied, in order, without executing anything.
//
// It is used to inspect and validate pipeline documents without an execution engine, and in tests.
package recorder

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
	"k8s.io/klog/v2"
)

// ErrClosed is returned by operations on a closed Pipeline.
var ErrClosed = errors.New("pipeline is closed")

// Session creates recording Pipelines and keeps track of them. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	pipelines []*Pipeline
}

var _ pipeline.Session = (*Session)(nil)

// NewSession returns an empty Session.
func NewSession() *Session {
	return &Session{}
}

// NewPipeline implements pipeline.Session.
func (s *Session) NewPipeline() (pipeline.Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := New()
	p.id = len(s.pipelines)
	s.pipelines = append(s.pipelines, p)
	return p, nil
}

// Pipelines returns all pipelines created by the session, closed ones included.
func (s *Session) Pipelines() []*Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Pipeline(nil), s.pipelines...)
}

// Live returns the pipelines created by the session that are not closed.
func (s *Session) Live() []*Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	var live []*Pipeline
	for _, p := range s.pipelines {
		if !p.Closed() {
			live = append(live, p)
		}
	}
	return live
}

// Tensor created by a recording Pipeline.
type Tensor struct {
	pipeline    *Pipeline
	id          int
	attr        *tensorattr.Attribute
	placeholder bool
}

var _ pipeline.Tensor = (*Tensor)(nil)

// Attribute implements pipeline.Tensor.
func (t *Tensor) Attribute() *tensorattr.Attribute { return t.attr }

// IsPlaceholder implements pipeline.Tensor.
func (t *Tensor) IsPlaceholder() bool { return t.placeholder }

// ID is the order of creation of the tensor in its pipeline, starting at 0.
func (t *Tensor) ID() int { return t.id }

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "#%d", t.id)
	if t.attr == nil {
		sb.WriteString(" glTF")
	} else {
		_, _ = fmt.Fprintf(&sb, " %s", t.attr)
	}
	if t.placeholder {
		sb.WriteString(" (placeholder)")
	}
	return sb.String()
}

// IOMap is one model input or output of a run_algorithm operator.
type IOMap struct {
	Alias    string
	Tensor   *Tensor
	Encoding pipeline.ModelEncoding
}

// Op is one recorded operator. Only the fields relevant to its Type are set.
type Op struct {
	Type            pipeline.OpType
	Inputs, Outputs []*Tensor

	// CvtColor
	Flag int

	// GetAffine
	Src, Dst pipeline.AffinePoints

	// Arithmetic
	Expression string

	// RunAlgorithm
	ModelName                 string
	ModelSize                 int
	ModelInputs, ModelOutputs []IOMap
}

// String implements fmt.Stringer.
func (op *Op) String() string {
	return fmt.Sprintf("%s(%s) -> (%s)", op.Type, joinTensors(op.Inputs), joinTensors(op.Outputs))
}

func joinTensors(tensors []*Tensor) string {
	parts := make([]string, len(tensors))
	for ii, t := range tensors {
		parts[ii] = "#" + strconv.Itoa(t.id)
	}
	return strings.Join(parts, ", ")
}

// Pipeline records the tensors created and the operators applied. It is safe for concurrent use.
type Pipeline struct {
	id int

	mu      sync.Mutex
	tensors []*Tensor
	ops     []*Op
	closed  bool
}

var (
	_ pipeline.Pipeline        = (*Pipeline)(nil)
	_ pipeline.AlgorithmRunner = (*Pipeline)(nil)
	_ io.Closer                = (*Pipeline)(nil)
)

// New returns a new empty Pipeline, not associated to any Session.
func New() *Pipeline {
	return &Pipeline{}
}

// Tensors returns the tensors created, in order.
func (p *Pipeline) Tensors() []*Tensor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tensors
}

// Ops returns the operators recorded, in order.
func (p *Pipeline) Ops() []*Op {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ops
}

// Closed returns whether Close was called.
func (p *Pipeline) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close discards everything recorded. Further operations fail with ErrClosed.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if klog.V(2).Enabled() {
		klog.Infof("recorder: closing pipeline #%d with %d tensors and %d operators", p.id, len(p.tensors), len(p.ops))
	}
	p.closed = true
	p.tensors = nil
	p.ops = nil
	return nil
}

// String lists the tensors and operators recorded.
func (p *Pipeline) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "Pipeline #%d", p.id)
	if p.closed {
		sb.WriteString(" (closed)")
	}
	sb.WriteString(":\n")
	for _, t := range p.tensors {
		_, _ = fmt.Fprintf(&sb, "\ttensor %s\n", t)
	}
	for _, op := range p.ops {
		_, _ = fmt.Fprintf(&sb, "\t%s\n", op)
	}
	return sb.String()
}

func (p *Pipeline) newTensor(attr *tensorattr.Attribute, placeholder bool) (*Tensor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	t := &Tensor{pipeline: p, id: len(p.tensors), attr: attr, placeholder: placeholder}
	p.tensors = append(p.tensors, t)
	return t, nil
}

// NewTensor implements pipeline.Pipeline.
func (p *Pipeline) NewTensor(attr tensorattr.Attribute, placeholder bool) (pipeline.Tensor, error) {
	attr = attr.Clone()
	return p.newTensor(&attr, placeholder)
}

// NewGLTFPlaceholder implements pipeline.Pipeline. glTF tensors are always placeholders.
func (p *Pipeline) NewGLTFPlaceholder() (pipeline.Tensor, error) {
	return p.newTensor(nil, true)
}

// operands converts the tensors to *Tensor, checking that they are valid operands of op.
func (p *Pipeline) operands(op pipeline.OpType, tensors ...pipeline.Tensor) ([]*Tensor, error) {
	if p.Closed() {
		return nil, ErrClosed
	}
	converted := make([]*Tensor, len(tensors))
	for ii, t := range tensors {
		rt, ok := t.(*Tensor)
		if !ok || rt == nil {
			return nil, errors.Errorf("%s: operand #%d (%T) was not created by a recorder", op, ii, t)
		}
		if rt.pipeline != p {
			return nil, errors.Errorf("%s: tensor %s belongs to a different pipeline", op, rt)
		}
		if rt.attr == nil && op.IsBuiltin() {
			return nil, errors.Errorf("%s: glTF placeholder %s can't be an operand", op, rt)
		}
		converted[ii] = rt
	}
	return converted, nil
}

func (p *Pipeline) record(op *Op, numInputs int, tensors ...pipeline.Tensor) error {
	converted, err := p.operands(op.Type, tensors...)
	if err != nil {
		return err
	}
	op.Inputs, op.Outputs = converted[:numInputs], converted[numInputs:]
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.ops = append(p.ops, op)
	return nil
}

// CameraAccess implements pipeline.Pipeline.
func (p *Pipeline) CameraAccess(rightEye, leftEye, timestamp, cameraMatrix pipeline.Tensor) error {
	return p.record(&Op{Type: pipeline.OpTypeCameraAccess}, 0, rightEye, leftEye, timestamp, cameraMatrix)
}

// GetAffine implements pipeline.Pipeline.
func (p *Pipeline) GetAffine(src, dst pipeline.AffinePoints, affine pipeline.Tensor) error {
	return p.record(&Op{Type: pipeline.OpTypeGetAffine, Src: src, Dst: dst}, 0, affine)
}

// ApplyAffine implements pipeline.Pipeline.
func (p *Pipeline) ApplyAffine(affine, src, dst pipeline.Tensor) error {
	return p.record(&Op{Type: pipeline.OpTypeApplyAffine}, 2, affine, src, dst)
}

// Assignment implements pipeline.Pipeline.
func (p *Pipeline) Assignment(src, dst pipeline.Tensor) error {
	return p.record(&Op{Type: pipeline.OpTypeAssignment}, 1, src, dst)
}

// CvtColor implements pipeline.Pipeline.
func (p *Pipeline) CvtColor(flag int, src, dst pipeline.Tensor) error {
	return p.record(&Op{Type: pipeline.OpTypeCvtColor, Flag: flag}, 1, src, dst)
}

// TypeConvert implements pipeline.Pipeline.
func (p *Pipeline) TypeConvert(src, dst pipeline.Tensor) error {
	return p.record(&Op{Type: pipeline.OpTypeTypeConvert}, 1, src, dst)
}

var operandRefRegexp = regexp.MustCompile(`\{(\d+)\}`)

// Arithmetic implements pipeline.Pipeline. Operand references ("{n}") in the expression must
// refer to one of the operands.
func (p *Pipeline) Arithmetic(expression string, operands []pipeline.Tensor, result pipeline.Tensor) error {
	for _, match := range operandRefRegexp.FindAllStringSubmatch(expression, -1) {
		idx, err := strconv.Atoi(match[1])
		if err != nil || idx >= len(operands) {
			return errors.Errorf("%s: expression %q refers to %s, but there are only %d operands",
				pipeline.OpTypeArithmetic, expression, match[0], len(operands))
		}
	}
	tensors := append(append([]pipeline.Tensor(nil), operands...), result)
	return p.record(&Op{Type: pipeline.OpTypeArithmetic, Expression: expression}, len(operands), tensors...)
}

// RunAlgorithm implements pipeline.AlgorithmRunner.
func (p *Pipeline) RunAlgorithm(model pipeline.Model, inputs, outputs []pipeline.Binding) error {
	if len(model.Buffer) == 0 {
		return errors.Errorf("%s: model %q has an empty buffer", pipeline.OpTypeRunAlgorithm, model.Name)
	}
	op := &Op{Type: pipeline.OpTypeRunAlgorithm, ModelName: model.Name, ModelSize: len(model.Buffer)}
	var err error
	if op.ModelInputs, err = p.ioMaps(inputs); err != nil {
		return errors.WithMessagef(err, "%s: model %q input", pipeline.OpTypeRunAlgorithm, model.Name)
	}
	if op.ModelOutputs, err = p.ioMaps(outputs); err != nil {
		return errors.WithMessagef(err, "%s: model %q output", pipeline.OpTypeRunAlgorithm, model.Name)
	}
	tensors := make([]pipeline.Tensor, 0, len(inputs)+len(outputs))
	for _, b := range inputs {
		tensors = append(tensors, b.Tensor)
	}
	for _, b := range outputs {
		tensors = append(tensors, b.Tensor)
	}
	return p.record(op, len(inputs), tensors...)
}

func (p *Pipeline) ioMaps(bindings []pipeline.Binding) ([]IOMap, error) {
	maps := make([]IOMap, 0, len(bindings))
	for _, b := range bindings {
		converted, err := p.operands(pipeline.OpTypeRunAlgorithm, b.Tensor)
		if err != nil {
			return nil, err
		}
		encoding, err := pipeline.ModelEncodingFor(b.Tensor)
		if err != nil {
			return nil, errors.WithMessagef(err, "%q", b.Alias)
		}
		maps = append(maps, IOMap{Alias: b.Alias, Tensor: converted[0], Encoding: encoding})
	}
	return maps, nil
}
