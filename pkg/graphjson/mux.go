// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package graphjson

import (
	"context"

	"github.com/gomlx/exceptions"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/support/sets"
)

// Mux dispatches custom operator records to the handler registered for their type.
//
// Use its HandleRecord method as the Decoder's OperatorHandler:
//
//	mux := graphjson.NewMux().
//		Handle("run_algorithm", runAlgorithm.HandleRecord).
//		Handle("render_text", renderText)
//	result, err := graphjson.NewDecoder(session).WithHandler(mux.HandleRecord).Decode(ctx, doc)
type Mux struct {
	handlers map[string]OperatorHandler
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{handlers: make(map[string]OperatorHandler)}
}

// Handle registers the handler for records of the given type, and returns the Mux itself.
//
// It panics if the type is empty, built-in, or already registered.
func (m *Mux) Handle(opType string, handler OperatorHandler) *Mux {
	if opType == "" || handler == nil {
		exceptions.Panicf("graphjson.Mux.Handle() requires an operator type and a handler")
	}
	if _, builtin := builtinOpType(opType); builtin {
		exceptions.Panicf("graphjson.Mux.Handle(%q): built-in operators can't be handled", opType)
	}
	if _, found := m.handlers[opType]; found {
		exceptions.Panicf("graphjson.Mux.Handle(%q): operator type already registered", opType)
	}
	m.handlers[opType] = handler
	return m
}

// Types returns the registered operator types, sorted.
func (m *Mux) Types() []string {
	types := sets.Make[string](len(m.handlers))
	for opType := range m.handlers {
		types.Insert(opType)
	}
	return sets.Sorted(types)
}

// HandleRecord implements OperatorHandler. Records of unregistered types are not handled.
func (m *Mux) HandleRecord(ctx context.Context, rec Record, resolve Resolver, p pipeline.Pipeline) (bool, error) {
	handler, found := m.handlers[rec.Type]
	if !found {
		return false, nil
	}
	return handler(ctx, rec, resolve, p)
}
