// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package graphjson

import (
	"context"
	"fmt"
	"io"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
	"github.com/xrgraph/xrgraph/pkg/core/tensorlist"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
	"github.com/xrgraph/xrgraph/pkg/support/sets"
	"k8s.io/klog/v2"
)

// Resolver returns the tensor declared with the given name, or an UnknownTensor error.
type Resolver func(name string) (pipeline.Tensor, error)

// OperatorHandler extends the decoder with operator types outside the built-in set.
//
// It is called with the raw record, a resolver for the declared tensors and the pipeline being built.
// It returns whether it handled the record: if not, decoding fails with UnsupportedOperator. An error
// returned aborts decoding with it, handled or not.
type OperatorHandler func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (handled bool, err error)

// DuplicatePolicy defines what to do with a tensor name declared more than once.
type DuplicatePolicy int

const (
	// LastWins keeps the last declaration of a repeated tensor name.
	LastWins DuplicatePolicy = iota

	// RejectDuplicates fails decoding with MalformedDocument.
	RejectDuplicates
)

// Decoder of pipeline documents. Create it with NewDecoder and configure it with its methods.
//
// A Decoder holds no state across calls, and can be reused.
type Decoder struct {
	session     pipeline.Session
	handler     OperatorHandler
	strictLists bool
	duplicates  DuplicatePolicy
	knownTypes  sets.Set[string]
}

// NewDecoder returns a Decoder building pipelines with session.
// The session can be nil if the Decoder is only used to Parse documents.
func NewDecoder(session pipeline.Session) *Decoder {
	return &Decoder{session: session}
}

// WithHandler sets the handler for operator types outside the built-in set. See Mux to
// combine handlers for several types.
func (d *Decoder) WithHandler(handler OperatorHandler) *Decoder {
	d.handler = handler
	return d
}

// StrictLists makes the decoding of the operators "inputs" and "outputs" strict: elements that are not
// tensor names are errors (MalformedOperatorParams) instead of being skipped, and so are values that
// are not arrays.
//
// Default is false.
func (d *Decoder) StrictLists(strict bool) *Decoder {
	d.strictLists = strict
	return d
}

// Duplicates sets the policy for tensor names declared more than once. Default is LastWins.
func (d *Decoder) Duplicates(policy DuplicatePolicy) *Decoder {
	d.duplicates = policy
	return d
}

// KnownTypes sets the operator types, besides the built-in ones, that Parse accepts, e.g.: the Types()
// of the Mux used for decoding. Records of other types fail with UnsupportedOperator.
//
// By default Parse accepts any type. Decode ignores it, the handler decides instead.
func (d *Decoder) KnownTypes(types ...string) *Decoder {
	d.knownTypes = sets.MakeWith(types...)
	return d
}

// Decode doc into a new pipeline created with the Decoder's session.
//
// On failure it returns an *Error, and the pipeline created (if any) is closed if it implements io.Closer.
// The context is passed along to the OperatorHandler.
func (d *Decoder) Decode(ctx context.Context, doc Document) (*Result, error) {
	if d.session == nil {
		exceptions.Panicf("graphjson.Decoder.Decode() requires a session, see NewDecoder()")
	}
	b, err := d.run(ctx, doc, true)
	if err != nil {
		return nil, err
	}
	if klog.V(1).Enabled() {
		klog.Infof("graphjson: decoded pipeline with %d tensors and %d operators",
			len(b.desc.Tensors), len(b.desc.Operators))
	}
	return &Result{Pipeline: b.p, Tensors: b.tensors, Description: b.desc}, nil
}

// Parse and validate doc without building a pipeline.
//
// Built-in operators are fully validated. Records of other types are kept as Custom operators, and
// are not offered to the handler: their type is checked against KnownTypes, if set, and the tensors
// in their "inputs" and "outputs" must be declared.
func (d *Decoder) Parse(doc Document) (*Description, error) {
	b, err := d.run(context.Background(), doc, false)
	if err != nil {
		return nil, err
	}
	return b.desc, nil
}

// Decode doc into a new pipeline created with session, using the default Decoder configuration.
// The handler is optional.
func Decode(ctx context.Context, doc Document, session pipeline.Session, handler OperatorHandler) (*Result, error) {
	return NewDecoder(session).WithHandler(handler).Decode(ctx, doc)
}

// Parse and validate doc without building a pipeline, using the default Decoder configuration.
func Parse(doc Document) (*Description, error) {
	return NewDecoder(nil).Parse(doc)
}

// builder holds the state of one decoding.
type builder struct {
	*Decoder
	ctx context.Context

	// p is nil when only parsing.
	p        pipeline.Pipeline
	declared sets.Set[string]
	tensors  map[string]pipeline.Tensor
	desc     *Description
}

func (d *Decoder) run(ctx context.Context, doc Document, build bool) (b *builder, err error) {
	root, err := jsonobj.Parse(doc)
	if err != nil {
		return nil, documentError("JSON is not an object")
	}
	rawTensors, _ := root.Get(KeyTensors)
	if jsonobj.KindOf(rawTensors) != jsonobj.KindObject {
		return nil, documentError("%s section missing or invalid", KeyTensors)
	}
	rawOperators, _ := root.Get(KeyOperators)
	if jsonobj.KindOf(rawOperators) != jsonobj.KindArray {
		return nil, documentError("%s section missing or invalid", KeyOperators)
	}
	tensorsObj, err := jsonobj.Parse(rawTensors)
	if err != nil {
		return nil, documentError("%s section invalid: %v", KeyTensors, err)
	}
	records, err := jsonobj.Array(rawOperators)
	if err != nil {
		return nil, documentError("%s section invalid: %v", KeyOperators, err)
	}

	b = &builder{
		Decoder:  d,
		ctx:      ctx,
		declared: sets.Make[string](len(tensorsObj)),
		tensors:  make(map[string]pipeline.Tensor, len(tensorsObj)),
		desc:     &Description{},
	}
	if metadata, found := root.Get(KeyMetadata); found {
		b.desc.Metadata = append(Document(nil), metadata...)
	}
	if build {
		b.p, err = d.session.NewPipeline()
		if err != nil {
			return nil, &Error{Kind: BuilderFailure, Operator: -1, Msg: "failed to create pipeline", Err: err}
		}
		defer func() {
			if err != nil {
				discard(b.p)
				b = nil
			}
		}()
	}

	if err = b.declareTensors(tensorsObj); err != nil {
		return
	}
	for ii, raw := range records {
		if err = b.applyOperator(ii, raw); err != nil {
			return
		}
	}
	return
}

// discard a pipeline whose build failed.
func discard(p pipeline.Pipeline) {
	closer, ok := p.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		klog.Warningf("graphjson: failed to close the pipeline of a failed decoding: %+v", err)
	}
}

func (b *builder) declareTensors(obj jsonobj.Object) error {
	if dups := obj.Duplicates(); len(dups) > 0 {
		if b.duplicates == RejectDuplicates {
			e := documentError("tensor %q declared more than once", dups[0])
			e.Tensor = dups[0]
			return e
		}
		klog.Warningf("graphjson: tensors %q declared more than once, the last declarations are used", dups)
		obj = obj.Dedup()
	}
	for _, m := range obj {
		decl, err := decodeDeclaration(m.Key, m.Value)
		if err != nil {
			return err
		}
		if b.p != nil {
			var t pipeline.Tensor
			if decl.IsGLTF() {
				t, err = b.p.NewGLTFPlaceholder()
			} else {
				t, err = b.p.NewTensor(*decl.Attribute, decl.Placeholder)
			}
			if err != nil {
				return &Error{Kind: BuilderFailure, Operator: -1, Tensor: decl.Name,
					Msg: fmt.Sprintf("failed to create tensor %s", decl.Name), Err: err}
			}
			b.tensors[decl.Name] = t
		}
		b.declared.Insert(decl.Name)
		b.desc.Tensors = append(b.desc.Tensors, decl)
	}
	return nil
}

// decodeDeclaration of one tensor. A tensor marked both "is_gltf" and "is_placeholder" is a glTF
// placeholder, anything else must have a valid attribute.
func decodeDeclaration(name string, raw Document) (TensorDecl, error) {
	obj, err := jsonobj.Parse(raw)
	if err != nil {
		return TensorDecl{}, tensorError(name, err)
	}
	placeholder, err := obj.BoolOr(KeyPlaceholder, false)
	if err != nil {
		return TensorDecl{}, tensorError(name, err)
	}
	gltf, err := obj.BoolOr(tensorattr.KeyGLTF, false)
	if err != nil {
		return TensorDecl{}, tensorError(name, err)
	}
	if placeholder && gltf {
		return TensorDecl{Name: name, Placeholder: true}, nil
	}
	attr, err := tensorattr.DecodeObject(obj)
	if err != nil {
		return TensorDecl{}, tensorError(name, err)
	}
	return TensorDecl{Name: name, Attribute: &attr, Placeholder: placeholder}, nil
}

func (b *builder) applyOperator(index int, raw Document) error {
	rec := Record{Index: index}
	fields, err := jsonobj.Parse(raw)
	if err != nil {
		return operatorError(MalformedOperatorParams, rec, err, "operator record must be an object")
	}
	rec.Fields = fields
	if rec.Type, err = fields.StringOr(KeyType, ""); err != nil {
		return operatorError(MalformedOperatorParams, rec, err, "invalid operator type")
	}

	op, refs, err := b.parseOperator(rec)
	if err != nil {
		return err
	}
	switch op := op.(type) {
	case Custom:
		if err := b.dispatchCustom(rec); err != nil {
			return err
		}
	default:
		if missing := b.declared.Missing(refs...); len(missing) > 0 {
			return unknownTensorError(rec, missing[0])
		}
		if b.p != nil {
			if err := b.build(op); err != nil {
				return operatorError(BuilderFailure, rec, err, "%s failed", rec.Type)
			}
		}
	}
	b.desc.Operators = append(b.desc.Operators, op)
	return nil
}

// parseOperator converts a record to its Operator, validating the parameters and arity of the built-in
// operators. It also returns the names of all tensors referenced by built-in operators, including
// extra inputs and outputs that are not used.
func (b *builder) parseOperator(rec Record) (op Operator, refs []string, err error) {
	opType, builtin := builtinOpType(rec.Type)
	if !builtin {
		return Custom{Record: rec}, nil, nil
	}
	inputs, err := tensorlist.DecodeList(rec.Field(KeyInputs), b.strictLists)
	if err != nil {
		return nil, nil, operatorError(MalformedOperatorParams, rec, err, "%s %s malformed", rec.Type, KeyInputs)
	}
	outputs, err := tensorlist.DecodeList(rec.Field(KeyOutputs), b.strictLists)
	if err != nil {
		return nil, nil, operatorError(MalformedOperatorParams, rec, err, "%s %s malformed", rec.Type, KeyOutputs)
	}
	arityError := func(format string, args ...any) error {
		return operatorError(OperatorArityViolation, rec, nil, format, args...)
	}

	switch opType {
	case pipeline.OpTypeCameraAccess:
		if len(outputs) != 4 {
			return nil, nil, arityError("camera_access outputs malformed: requires exactly 4 outputs, got %d", len(outputs))
		}
		op = CameraAccess{RightEye: outputs[0], LeftEye: outputs[1], Timestamp: outputs[2], CameraMatrix: outputs[3]}

	case pipeline.OpTypeGetAffine:
		var ga GetAffine
		var srcErr, dstErr error
		ga.SrcPoints, srcErr = tensorlist.DecodeAffinePoints(rec.Field(KeySrcPoints))
		ga.DstPoints, dstErr = tensorlist.DecodeAffinePoints(rec.Field(KeyDstPoints))
		if srcErr != nil {
			return nil, nil, operatorError(MalformedOperatorParams, rec, srcErr, "get_affine points malformed: %s", KeySrcPoints)
		}
		if dstErr != nil {
			return nil, nil, operatorError(MalformedOperatorParams, rec, dstErr, "get_affine points malformed: %s", KeyDstPoints)
		}
		if len(outputs) == 0 {
			return nil, nil, arityError("get_affine requires output tensor")
		}
		ga.Output = outputs[0]
		op = ga

	case pipeline.OpTypeApplyAffine:
		if len(inputs) < 2 || len(outputs) == 0 {
			return nil, nil, arityError("apply_affine requires two inputs and one output, got %d inputs and %d outputs",
				len(inputs), len(outputs))
		}
		op = ApplyAffine{Affine: inputs[0], Source: inputs[1], Output: outputs[0]}

	case pipeline.OpTypeCvtColor:
		flag, err := rec.Fields.IntOr(KeyFlag, 0)
		if err != nil {
			return nil, nil, operatorError(MalformedOperatorParams, rec, err, "cvt_color %s malformed", KeyFlag)
		}
		if len(inputs) == 0 || len(outputs) == 0 {
			return nil, nil, arityError("cvt_color requires input and output tensors")
		}
		op = CvtColor{Flag: int(flag), Source: inputs[0], Output: outputs[0]}

	case pipeline.OpTypeAssignment, pipeline.OpTypeTypeConvert:
		if len(inputs) == 0 || len(outputs) == 0 {
			return nil, nil, arityError("%s requires input and output tensors", rec.Type)
		}
		if opType == pipeline.OpTypeAssignment {
			op = Assignment{Source: inputs[0], Output: outputs[0]}
		} else {
			op = TypeConvert{Source: inputs[0], Output: outputs[0]}
		}

	case pipeline.OpTypeArithmetic:
		expression, err := rec.Fields.StringOr(KeyExpression, "")
		if err != nil {
			return nil, nil, operatorError(MalformedOperatorParams, rec, err, "arithmetic %s malformed", KeyExpression)
		}
		if len(outputs) == 0 {
			return nil, nil, arityError("arithmetic requires output tensor")
		}
		op = Arithmetic{Expression: expression, Operands: inputs, Output: outputs[0]}

	default:
		exceptions.Panicf("graphjson: built-in operator %s has no decoder", opType)
	}
	refs = append(append(refs, inputs...), outputs...)
	return op, refs, nil
}

// build calls the pipeline builder for a built-in operator.
func (b *builder) build(op Operator) error {
	t := func(name string) pipeline.Tensor { return b.tensors[name] }
	switch op := op.(type) {
	case CameraAccess:
		return b.p.CameraAccess(t(op.RightEye), t(op.LeftEye), t(op.Timestamp), t(op.CameraMatrix))
	case GetAffine:
		return b.p.GetAffine(op.SrcPoints, op.DstPoints, t(op.Output))
	case ApplyAffine:
		return b.p.ApplyAffine(t(op.Affine), t(op.Source), t(op.Output))
	case Assignment:
		return b.p.Assignment(t(op.Source), t(op.Output))
	case CvtColor:
		return b.p.CvtColor(op.Flag, t(op.Source), t(op.Output))
	case TypeConvert:
		return b.p.TypeConvert(t(op.Source), t(op.Output))
	case Arithmetic:
		operands := make([]pipeline.Tensor, len(op.Operands))
		for ii, name := range op.Operands {
			operands[ii] = t(name)
		}
		return b.p.Arithmetic(op.Expression, operands, t(op.Output))
	default:
		exceptions.Panicf("graphjson: operator %T is not built-in", op)
		return nil
	}
}

// checkCustom validates a custom record when only parsing.
func (b *builder) checkCustom(rec Record) error {
	if b.knownTypes != nil && !b.knownTypes.Has(rec.Type) {
		return unsupportedError(rec)
	}
	op := Custom{Record: rec}
	if missing := b.declared.Missing(append(op.Inputs(), op.Outputs()...)...); len(missing) > 0 {
		return unknownTensorError(rec, missing[0])
	}
	return nil
}

// dispatchCustom offers the record to the handler. When only parsing the record is checked instead.
func (b *builder) dispatchCustom(rec Record) error {
	if b.p == nil {
		return b.checkCustom(rec)
	}
	if b.handler == nil {
		return unsupportedError(rec)
	}
	resolve := func(name string) (pipeline.Tensor, error) {
		t, found := b.tensors[name]
		if !found {
			return nil, unknownTensorError(rec, name)
		}
		return t, nil
	}

	var handled bool
	var err error
	exception := exceptions.Try(func() {
		handled, err = b.handler(b.ctx, rec, resolve, b.p)
	})
	if exception != nil {
		if exceptionErr, ok := exception.(error); ok {
			err = errors.WithMessage(exceptionErr, "handler panicked")
		} else {
			err = errors.Errorf("handler panicked: %v", exception)
		}
	}
	if err != nil {
		var decodeErr *Error
		if errors.As(err, &decodeErr) {
			return decodeErr
		}
		return operatorError(HandlerFailure, rec, err, "%s failed", rec.Type)
	}
	if !handled {
		return unsupportedError(rec)
	}
	return nil
}
