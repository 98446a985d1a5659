// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package graphjson

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies decoding and encoding errors.
type ErrorKind int

//go:generate go tool enumer -type=ErrorKind -output=gen_errorkind_enumer.go errors.go

const (
	// MalformedDocument: the document is not an object, or its "tensors" or "operators" sections are
	// missing or of the wrong type, or a tensor name is repeated (see RejectDuplicates).
	MalformedDocument ErrorKind = iota + 1

	// MalformedTensorAttribute: a tensor declaration can't be decoded. Error.Tensor names it.
	MalformedTensorAttribute

	// UnknownTensor: an operator refers to a tensor that was never declared. Error.Tensor names it.
	UnknownTensor

	// MalformedOperatorParams: an operator record or one of its parameters has the wrong shape.
	MalformedOperatorParams

	// OperatorArityViolation: an operator has too few (or too many) inputs or outputs.
	OperatorArityViolation

	// UnsupportedOperator: an operator type is not built-in, and no handler claimed it.
	UnsupportedOperator

	// BuilderFailure: the pipeline.Session or pipeline.Pipeline returned an error.
	BuilderFailure

	// HandlerFailure: an OperatorHandler returned an error, or panicked.
	HandlerFailure
)

// Error returned by the decoder and the encoder.
type Error struct {
	Kind ErrorKind

	// Operator is the index of the offending record in the "operators" array, or -1 if the error
	// is not about an operator.
	Operator int

	// OpType of the offending operator, if any.
	OpType string

	// Tensor is the name of the offending tensor, if any.
	Tensor string

	// Msg describes the error.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Operator >= 0 {
		_, _ = fmt.Fprintf(&sb, "operators[%d]: ", e.Operator)
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or 0 if err is not (and doesn't wrap) an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind returns whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func documentError(format string, args ...any) *Error {
	return &Error{Kind: MalformedDocument, Operator: -1, Msg: fmt.Sprintf(format, args...)}
}

func tensorError(name string, cause error) *Error {
	return &Error{Kind: MalformedTensorAttribute, Operator: -1, Tensor: name,
		Msg: fmt.Sprintf("invalid tensor attribute for %s", name), Err: cause}
}

func operatorError(kind ErrorKind, rec Record, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Operator: rec.Index, OpType: rec.Type, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func unsupportedError(rec Record) *Error {
	return operatorError(UnsupportedOperator, rec, nil, "unsupported operator type '%s'", rec.Type)
}

func unknownTensorError(rec Record, name string) *Error {
	e := operatorError(UnknownTensor, rec, nil, "%s: tensor '%s' not found", rec.Type, name)
	e.Tensor = name
	return e
}
