// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package graphjson

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline/notimplemented"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline/recorder"
	"github.com/xrgraph/xrgraph/pkg/core/tensorattr"
	"github.com/xrgraph/xrgraph/pkg/core/tensorlist"
)

const assignmentDoc = `{
  "tensors": {
    "a": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1},
    "b": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1}
  },
  "operators": [{"type": "assignment", "inputs": ["a"], "outputs": ["b"]}]
}`

func mnistDoc(t *testing.T) Document {
	return must.M1(os.ReadFile(filepath.Join("testdata", "mnist.json")))
}

// runAlgorithm is a minimal handler for the "run_algorithm" records of testdata/mnist.json.
func runAlgorithm(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
	if rec.Type != "run_algorithm" {
		return false, nil
	}
	bind := func(key string) ([]pipeline.Binding, error) {
		mapping, err := tensorlist.DecodeMapped(rec.Field(key), true)
		if err != nil {
			return nil, err
		}
		var bindings []pipeline.Binding
		for _, m := range mapping {
			t, err := resolve(m.Tensor)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, pipeline.Binding{Alias: m.Alias, Tensor: t})
		}
		return bindings, nil
	}
	inputs, err := bind(KeyInputs)
	if err != nil {
		return false, err
	}
	outputs, err := bind(KeyOutputs)
	if err != nil {
		return false, err
	}
	name, err := rec.Fields.StringOr("model_name", "mnist")
	if err != nil {
		return false, err
	}
	return true, p.(pipeline.AlgorithmRunner).RunAlgorithm(pipeline.Model{Name: name, Buffer: []byte("model")}, inputs, outputs)
}

func decodeWith(t *testing.T, doc string, handler OperatorHandler) (*recorder.Session, *Result, error) {
	session := recorder.NewSession()
	result, err := NewDecoder(session).WithHandler(handler).Decode(context.Background(), Document(doc))
	if err != nil {
		require.Nil(t, result)
		assert.Empty(t, session.Live(), "pipeline of a failed decoding was not discarded")
	}
	return session, result, err
}

func requireKind(t *testing.T, err error, kind ErrorKind, msgAndArgs ...any) *Error {
	require.Error(t, err, msgAndArgs...)
	var e *Error
	require.True(t, errors.As(err, &e), "error %v is not a *graphjson.Error", err)
	require.Equal(t, kind, e.Kind, "unexpected error kind for %q", err)
	return e
}

func TestDecodeAssignment(t *testing.T) {
	_, result, err := decodeWith(t, assignmentDoc, nil)
	require.NoError(t, err)
	p := result.Pipeline.(*recorder.Pipeline)
	assert.Len(t, p.Tensors(), 2)
	require.Len(t, p.Ops(), 1)
	assert.Equal(t, pipeline.OpTypeAssignment, p.Ops()[0].Type)
	assert.Len(t, result.Tensors, 2)
	assert.Same(t, p.Tensors()[0], result.Tensors["a"])
	assert.Same(t, p.Ops()[0].Outputs[0], result.Tensors["b"])
	assert.Equal(t, []string{"a", "b"}, result.Description.TensorNames())
	assert.Equal(t, []Operator{Assignment{Source: "a", Output: "b"}}, result.Description.Operators)
	assert.Nil(t, result.Description.Metadata)

	b, err := result.Tensor("b")
	require.NoError(t, err)
	assert.Equal(t, tensorattr.Uint8, b.Attribute().DataType)
	_, err = result.Tensor("c")
	requireKind(t, err, UnknownTensor)

	// Without "data_type" in "a".
	doc := strings.Replace(assignmentDoc, `"usage": 0, "data_type": 1},`, `"usage": 0},`, 1)
	_, _, err = decodeWith(t, doc, nil)
	e := requireKind(t, err, MalformedTensorAttribute)
	assert.Equal(t, "a", e.Tensor)
	assert.Contains(t, err.Error(), "a")
	assert.True(t, errors.Is(err, tensorattr.ErrMalformed))
}

func TestDecodeMnist(t *testing.T) {
	session := recorder.NewSession()
	result, err := Decode(context.Background(), mnistDoc(t), session, runAlgorithm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": 1}`, string(result.Description.Metadata))

	p := result.Pipeline.(*recorder.Pipeline)
	require.Len(t, p.Tensors(), 13)
	label := result.Tensors["label"]
	assert.True(t, pipeline.IsGLTF(label))
	assert.True(t, label.IsPlaceholder())
	assert.True(t, result.Tensors["crop_image"].IsPlaceholder())
	assert.False(t, result.Tensors["crop_rgb"].IsPlaceholder())
	assert.Equal(t, []int{224, 224}, result.Tensors["normalized"].Attribute().Dimensions)

	// Tensors are created in declaration order.
	assert.Equal(t, []string{"right_eye", "left_eye", "timestamp", "camera_matrix", "affine", "crop_rgb", "crop_image",
		"crop_gray", "crop_float", "normalized", "score", "class", "label"}, result.Description.TensorNames())
	for ii, name := range result.Description.TensorNames() {
		assert.Equal(t, ii, result.Tensors[name].(*recorder.Tensor).ID())
	}

	ops := p.Ops()
	require.Len(t, ops, 8)
	var types []pipeline.OpType
	for _, op := range ops {
		types = append(types, op.Type)
	}
	assert.Equal(t, []pipeline.OpType{pipeline.OpTypeCameraAccess, pipeline.OpTypeGetAffine, pipeline.OpTypeApplyAffine,
		pipeline.OpTypeAssignment, pipeline.OpTypeCvtColor, pipeline.OpTypeTypeConvert, pipeline.OpTypeArithmetic,
		pipeline.OpTypeRunAlgorithm}, types)

	tensor := func(name string) *recorder.Tensor { return result.Tensors[name].(*recorder.Tensor) }
	assert.Equal(t, []*recorder.Tensor{tensor("right_eye"), tensor("left_eye"), tensor("timestamp"),
		tensor("camera_matrix")}, ops[0].Outputs)
	assert.Equal(t, pipeline.AffinePoints{208, 128, 432, 128, 432, 352}, ops[1].Src)
	assert.Equal(t, pipeline.AffinePoints{0, 0, 224, 0, 224, 224}, ops[1].Dst)
	assert.Equal(t, []*recorder.Tensor{tensor("affine"), tensor("left_eye")}, ops[2].Inputs)
	assert.Equal(t, 7, ops[4].Flag)
	assert.Equal(t, "({0} / 255.0)", ops[6].Expression)
	assert.Equal(t, "mnist", ops[7].ModelName)
	assert.Equal(t, []recorder.IOMap{
		{Alias: "_538", Tensor: tensor("score"), Encoding: pipeline.EncodingFloat32},
		{Alias: "_539", Tensor: tensor("class"), Encoding: pipeline.EncodingInt32},
	}, ops[7].ModelOutputs)

	desc := result.Description
	require.Len(t, desc.Operators, 8)
	assert.Equal(t, GetAffine{
		SrcPoints: pipeline.AffinePoints{208, 128, 432, 128, 432, 352},
		DstPoints: pipeline.AffinePoints{0, 0, 224, 0, 224, 224},
		Output:    "affine",
	}, desc.Operators[1])
	assert.Equal(t, CvtColor{Flag: 7, Source: "crop_rgb", Output: "crop_gray"}, desc.Operators[4])
	custom, ok := desc.Operators[7].(Custom)
	require.True(t, ok)
	assert.Equal(t, 7, custom.Record.Index)
	assert.Equal(t, []string{"normalized"}, custom.Inputs())
	assert.Equal(t, []string{"score", "class"}, custom.Outputs())
}

func TestMalformedDocument(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":          `{"tensors": `,
		"array":             `[]`,
		"empty":             ``,
		"null":              `null`,
		"missing tensors":   `{"operators": []}`,
		"tensors array":     `{"tensors": [], "operators": []}`,
		"missing operators": `{"tensors": {}}`,
		"operators object":  `{"tensors": {}, "operators": {}}`,
	} {
		_, _, err := decodeWith(t, doc, nil)
		requireKind(t, err, MalformedDocument, name)
		_, err = Parse(Document(doc))
		requireKind(t, err, MalformedDocument, name)
	}

	_, _, err := decodeWith(t, `"x"`, nil)
	assert.Equal(t, "JSON is not an object", err.Error())
	_, _, err = decodeWith(t, `{"operators": []}`, nil)
	assert.Equal(t, "tensors section missing or invalid", err.Error())

	// Sections are checked before any tensor is created.
	session, _, err := decodeWith(t, `{"tensors": {"a": {}}}`, nil)
	requireKind(t, err, MalformedDocument)
	assert.Empty(t, session.Pipelines())

	// The minimal document.
	_, result, err := decodeWith(t, `{"tensors": {}, "operators": []}`, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Tensors)
}

func TestMalformedTensors(t *testing.T) {
	for name, decl := range map[string]string{
		"gltf not placeholder": `{"is_gltf": true}`,
		"placeholder only":     `{"is_placeholder": true}`,
		"string placeholder":   `{"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1, "is_placeholder": "yes"}`,
		"string gltf":          `{"is_gltf": 1, "is_placeholder": true}`,
		"not an object":        `[1]`,
		"float dimensions":     `{"dimensions": [1.5], "channels": 1, "usage": 0, "data_type": 1}`,
	} {
		doc := `{"tensors": {"ok": {"is_gltf": true, "is_placeholder": true}, "bad": ` + decl + `}, "operators": []}`
		session, _, err := decodeWith(t, doc, nil)
		e := requireKind(t, err, MalformedTensorAttribute, name)
		assert.Equal(t, "bad", e.Tensor)
		assert.Equal(t, -1, e.Operator)
		assert.Contains(t, err.Error(), "invalid tensor attribute for bad")
		require.Len(t, session.Pipelines(), 1)
		assert.True(t, session.Pipelines()[0].Closed())
	}

	// A glTF marker is ignored if the declaration has a full attribute and isn't a placeholder.
	_, result, err := decodeWith(t,
		`{"tensors": {"t": {"is_gltf": true, "dimensions": [2], "channels": 1, "usage": 1, "data_type": 6}}, "operators": []}`, nil)
	require.NoError(t, err)
	assert.False(t, pipeline.IsGLTF(result.Tensors["t"]))
}

// opDoc returns a document declaring the tensors "a" to "d", with the given operators.
func opDoc(op string) string {
	return `{
  "tensors": {
    "a": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1},
    "b": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1},
    "c": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1},
    "d": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1}
  },
  "operators": [` + op + `]
}`
}

func TestOperatorArity(t *testing.T) {
	for _, tc := range []struct {
		op   string
		kind ErrorKind
		msg  string
	}{
		{`{"type": "camera_access", "outputs": ["a", "b", "c"]}`, OperatorArityViolation, "camera_access"},
		{`{"type": "camera_access", "outputs": ["a", "b", "c", "d", "a"]}`, OperatorArityViolation, "camera_access"},
		{`{"type": "get_affine", "src_points": [0, 0, 1, 0, 0], "dst_points": [0, 0, 1, 0, 0, 1], "outputs": ["a"]}`,
			MalformedOperatorParams, "get_affine points malformed: src_points: expected 6 numbers, got 5 values: malformed float array"},
		{`{"type": "get_affine", "src_points": [0, 0, 1, 0, 0, 1], "outputs": ["a"]}`,
			MalformedOperatorParams, "get_affine points malformed: dst_points"},
		{`{"type": "get_affine", "src_points": [0, 0, 1, 0, 0, 1], "dst_points": [0, 0, 1, 0, 0, "1"], "outputs": ["a"]}`,
			MalformedOperatorParams, "get_affine points malformed"},
		{`{"type": "get_affine", "src_points": [0, 0, 1, 0, 0, 1], "dst_points": [0, 0, 1, 0, 0, 1]}`,
			OperatorArityViolation, "get_affine requires output tensor"},
		{`{"type": "apply_affine", "inputs": ["a"], "outputs": ["b"]}`, OperatorArityViolation, "apply_affine requires two inputs"},
		{`{"type": "apply_affine", "inputs": ["a", "b"]}`, OperatorArityViolation, "apply_affine requires two inputs"},
		{`{"type": "assignment", "inputs": ["a"]}`, OperatorArityViolation, "assignment requires input and output tensors"},
		{`{"type": "assignment", "outputs": ["a"]}`, OperatorArityViolation, "assignment requires input and output tensors"},
		{`{"type": "cvt_color", "flag": 1, "inputs": [], "outputs": ["a"]}`, OperatorArityViolation, "cvt_color requires"},
		{`{"type": "cvt_color", "flag": "rgb2gray", "inputs": ["a"], "outputs": ["b"]}`, MalformedOperatorParams, "cvt_color flag"},
		{`{"type": "cvt_color", "flag": 1.5, "inputs": ["a"], "outputs": ["b"]}`, MalformedOperatorParams, "cvt_color flag"},
		{`{"type": "type_convert", "inputs": ["a"], "outputs": "b"}`, OperatorArityViolation, "type_convert requires"},
		{`{"type": "arithmetic", "expression": "{0}", "inputs": ["a"]}`, OperatorArityViolation, "arithmetic requires output tensor"},
		{`{"type": "arithmetic", "expression": 3, "inputs": ["a"], "outputs": ["b"]}`, MalformedOperatorParams, "expression"},
		{`["assignment"]`, MalformedOperatorParams, "operator record must be an object"},
		{`{"type": 5}`, MalformedOperatorParams, "invalid operator type"},
	} {
		_, _, err := decodeWith(t, opDoc(tc.op), nil)
		e := requireKind(t, err, tc.kind, tc.op)
		assert.Contains(t, err.Error(), tc.msg, tc.op)
		assert.Equal(t, 0, e.Operator)
		assert.True(t, strings.HasPrefix(err.Error(), "operators[0]: "), err.Error())

		// Parse validates the same way.
		_, err = Parse(Document(opDoc(tc.op)))
		requireKind(t, err, tc.kind, tc.op)
	}
}

func TestOperatorDefaults(t *testing.T) {
	_, result, err := decodeWith(t, opDoc(`{"type": "cvt_color", "inputs": ["a"], "outputs": ["b", "c"]},
		{"type": "arithmetic", "outputs": ["d"]},
		{"type": "apply_affine", "inputs": ["a", "b", "c"], "outputs": ["d"]}`), nil)
	require.NoError(t, err)
	assert.Equal(t, []Operator{
		CvtColor{Flag: 0, Source: "a", Output: "b"},
		Arithmetic{Expression: "", Operands: []string{}, Output: "d"},
		ApplyAffine{Affine: "a", Source: "b", Output: "d"},
	}, result.Description.Operators)
	ops := result.Pipeline.(*recorder.Pipeline).Ops()
	require.Len(t, ops, 3)
	assert.Empty(t, ops[1].Inputs)
}

func TestUnknownTensor(t *testing.T) {
	for _, op := range []string{
		`{"type": "assignment", "inputs": ["a"], "outputs": ["missing"]}`,
		`{"type": "assignment", "inputs": [{"tensor": "missing"}], "outputs": ["a"]}`,
		`{"type": "arithmetic", "expression": "{0} + {1}", "inputs": ["a", "missing"], "outputs": ["b"]}`,
		`{"type": "camera_access", "outputs": ["a", "b", "c", "missing"]}`,
		// Unused extra outputs must be declared too.
		`{"type": "type_convert", "inputs": ["a"], "outputs": ["b", "missing"]}`,
	} {
		_, _, err := decodeWith(t, opDoc(op), nil)
		e := requireKind(t, err, UnknownTensor, op)
		assert.Equal(t, "missing", e.Tensor)
		assert.Contains(t, err.Error(), "tensor 'missing' not found")
	}
}

func TestFirstFailureStops(t *testing.T) {
	session, _, err := decodeWith(t, opDoc(`{"type": "assignment", "inputs": ["a"], "outputs": ["b"]},
		{"type": "run_algorithm"},
		{"type": "assignment", "inputs": ["missing"], "outputs": ["b"]}`), nil)
	e := requireKind(t, err, UnsupportedOperator)
	assert.Equal(t, 1, e.Operator)
	assert.Equal(t, "operators[1]: unsupported operator type 'run_algorithm'", err.Error())
	require.Len(t, session.Pipelines(), 1)
	assert.True(t, session.Pipelines()[0].Closed())
}

func TestExtensionDispatch(t *testing.T) {
	doc := mnistDoc(t)
	_, err := Decode(context.Background(), doc, recorder.NewSession(), nil)
	e := requireKind(t, err, UnsupportedOperator)
	assert.Equal(t, "run_algorithm", e.OpType)
	assert.Contains(t, err.Error(), "unsupported operator type 'run_algorithm'")

	// Handler that doesn't claim the record.
	declines := func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
		return false, nil
	}
	_, err = Decode(context.Background(), doc, recorder.NewSession(), declines)
	requireKind(t, err, UnsupportedOperator)

	// Handler errors win, claimed or not.
	for _, handled := range []bool{false, true} {
		failing := func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
			return handled, errors.New("requires loaded model buffer")
		}
		session := recorder.NewSession()
		_, err = Decode(context.Background(), doc, session, failing)
		e = requireKind(t, err, HandlerFailure)
		assert.Equal(t, 7, e.Operator)
		assert.Contains(t, err.Error(), "requires loaded model buffer")
		assert.Empty(t, session.Live())
	}

	// Resolver errors are passed through.
	resolvesMissing := func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
		_, err := resolve("nowhere")
		return true, err
	}
	_, err = Decode(context.Background(), doc, recorder.NewSession(), resolvesMissing)
	e = requireKind(t, err, UnknownTensor)
	assert.Equal(t, "nowhere", e.Tensor)
	assert.Equal(t, 7, e.Operator)

	// Resolver errors wrapped by the handler are returned unwrapped.
	wrapsMissing := func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
		_, err := resolve("nowhere")
		return true, errors.WithMessage(err, "binding model inputs")
	}
	_, err = Decode(context.Background(), doc, recorder.NewSession(), wrapsMissing)
	require.IsType(t, &Error{}, err)
	assert.Equal(t, UnknownTensor, err.(*Error).Kind)
	assert.Equal(t, "nowhere", err.(*Error).Tensor)

	// Panics are caught.
	panics := func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
		panic("boom")
	}
	session := recorder.NewSession()
	_, err = Decode(context.Background(), doc, session, panics)
	requireKind(t, err, HandlerFailure)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, session.Live())

	// The context is passed along.
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	var seen any
	withCtx := func(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
		seen = ctx.Value(ctxKey{})
		return runAlgorithm(ctx, rec, resolve, p)
	}
	_, err = Decode(ctx, doc, recorder.NewSession(), withCtx)
	require.NoError(t, err)
	assert.Equal(t, "value", seen)
}

func TestParse(t *testing.T) {
	desc, err := Parse(mnistDoc(t))
	require.NoError(t, err)
	assert.Len(t, desc.Tensors, 13)
	require.Len(t, desc.Operators, 8)
	assert.Equal(t, "run_algorithm", desc.Operators[7].Type())
	label, found := desc.Tensor("label")
	require.True(t, found)
	assert.True(t, label.IsGLTF())
	assert.True(t, label.Placeholder)
	_, found = desc.Tensor("nothing")
	assert.False(t, found)

	assert.Panics(t, func() { _, _ = NewDecoder(nil).Decode(context.Background(), mnistDoc(t)) })
}

func TestParseCustom(t *testing.T) {
	// Tensors of custom records must be declared, as in plain or mapped lists.
	for _, op := range []string{
		`{"type": "blur", "inputs": ["a"], "outputs": ["undeclared"]}`,
		`{"type": "blur", "inputs": ["undeclared"], "outputs": ["b"]}`,
		`{"type": "blur", "inputs": [{"name": "image", "tensor": "undeclared"}], "outputs": ["b"]}`,
	} {
		_, err := Parse(Document(opDoc(op)))
		e := requireKind(t, err, UnknownTensor, op)
		assert.Equal(t, "undeclared", e.Tensor)
		assert.Equal(t, 0, e.Operator)
	}
	desc, err := Parse(Document(opDoc(`{"type": "blur", "inputs": [{"name": "image", "tensor": "a"}], "outputs": ["b"]}`)))
	require.NoError(t, err)
	require.Len(t, desc.Operators, 1)
	assert.Equal(t, []string{"a"}, desc.Operators[0].Inputs())

	// Known types restrict the custom records accepted.
	decoder := NewDecoder(nil).KnownTypes(NewMux().Handle("blur", runAlgorithm).Types()...)
	_, err = decoder.Parse(Document(opDoc(`{"type": "blur", "inputs": ["a"], "outputs": ["b"]}`)))
	require.NoError(t, err)
	_, err = decoder.Parse(Document(opDoc(`{"type": "sharpen", "inputs": ["a"], "outputs": ["b"]}`)))
	e := requireKind(t, err, UnsupportedOperator)
	assert.Equal(t, "sharpen", e.OpType)
	_, err = decoder.Parse(mnistDoc(t))
	requireKind(t, err, UnsupportedOperator)

	// Parse and Decode agree on an unknown type referring to undeclared tensors.
	doc := opDoc(`{"type": "bogus_op", "inputs": ["undeclared"], "outputs": ["b"]}`)
	_, _, err = decodeWith(t, doc, nil)
	requireKind(t, err, UnsupportedOperator)
	_, err = NewDecoder(nil).KnownTypes().Parse(Document(doc))
	requireKind(t, err, UnsupportedOperator)
	_, err = Parse(Document(doc))
	requireKind(t, err, UnknownTensor)

	// Built-in types match exactly.
	_, _, err = decodeWith(t, opDoc(`{"type": "ASSIGNMENT", "inputs": ["a"], "outputs": ["b"]}`), nil)
	requireKind(t, err, UnsupportedOperator)
}

func TestDuplicateTensors(t *testing.T) {
	doc := `{
  "tensors": {
    "a": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1},
    "b": {"dimensions": [1], "channels": 1, "usage": 0, "data_type": 1},
    "a": {"dimensions": [2, 2], "channels": 3, "usage": 6, "data_type": 6}
  },
  "operators": [{"type": "assignment", "inputs": ["a"], "outputs": ["b"]}]
}`
	_, result, err := decodeWith(t, doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, result.Description.TensorNames())
	assert.Equal(t, []int{2, 2}, result.Tensors["a"].Attribute().Dimensions)
	assert.Len(t, result.Pipeline.(*recorder.Pipeline).Tensors(), 2)

	session := recorder.NewSession()
	_, err = NewDecoder(session).Duplicates(RejectDuplicates).Decode(context.Background(), Document(doc))
	e := requireKind(t, err, MalformedDocument)
	assert.Equal(t, "a", e.Tensor)
	assert.Empty(t, session.Live())

	_, err = NewDecoder(nil).Duplicates(RejectDuplicates).Parse(Document(doc))
	requireKind(t, err, MalformedDocument)
}

func TestStrictLists(t *testing.T) {
	doc := opDoc(`{"type": "assignment", "inputs": ["a", 3, {"name": "x"}], "outputs": ["b"]}`)
	_, _, err := decodeWith(t, doc, nil)
	require.NoError(t, err)

	session := recorder.NewSession()
	_, err = NewDecoder(session).StrictLists(true).Decode(context.Background(), Document(doc))
	requireKind(t, err, MalformedOperatorParams)
	assert.Contains(t, err.Error(), "assignment inputs malformed")
	assert.True(t, errors.Is(err, tensorlist.ErrMalformed))

	_, err = NewDecoder(nil).StrictLists(true).Parse(Document(opDoc(`{"type": "assignment", "inputs": ["a"], "outputs": "b"}`)))
	requireKind(t, err, MalformedOperatorParams)
}

func TestBuilderFailures(t *testing.T) {
	// Tensor creation fails.
	_, err := Decode(context.Background(), Document(assignmentDoc), notimplemented.Session{}, nil)
	e := requireKind(t, err, BuilderFailure)
	assert.Equal(t, "a", e.Tensor)
	assert.True(t, errors.Is(err, pipeline.ErrNotImplemented))

	// Operator fails.
	_, err = Decode(context.Background(), Document(assignmentDoc), partialSession{}, nil)
	e = requireKind(t, err, BuilderFailure)
	assert.Equal(t, 0, e.Operator)
	assert.Contains(t, err.Error(), "assignment is not supported")

	// Session fails.
	_, err = Decode(context.Background(), Document(assignmentDoc), failingSession{}, nil)
	requireKind(t, err, BuilderFailure)
}

// partialSession creates pipelines that record tensors, but support no operator.
type partialSession struct{}

type partialPipeline struct {
	notimplemented.Pipeline
	rec *recorder.Pipeline
}

func (partialSession) NewPipeline() (pipeline.Pipeline, error) {
	return &partialPipeline{
		Pipeline: notimplemented.Pipeline{ErrFn: func(op pipeline.OpType) error {
			return errors.Errorf("%s is not supported", op)
		}},
		rec: recorder.New(),
	}, nil
}

func (p *partialPipeline) NewTensor(attr tensorattr.Attribute, placeholder bool) (pipeline.Tensor, error) {
	return p.rec.NewTensor(attr, placeholder)
}

type failingSession struct{}

func (failingSession) NewPipeline() (pipeline.Pipeline, error) {
	return nil, errors.New("device lost")
}
