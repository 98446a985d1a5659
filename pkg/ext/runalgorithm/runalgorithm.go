// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package runalgorithm handles "run_algorithm" operator records: model inference over mapped inputs
// and outputs.
//
// A record looks like:
//
//	{
//	  "type": "run_algorithm",
//	  "model_name": "mnist",
//	  "model_asset": "mnist.serialized.bin",
//	  "inputs": [{"name": "input_1", "tensor": "normalized"}],
//	  "outputs": [{"name": "_538", "tensor": "score"}, {"name": "_539", "tensor": "class"}]
//	}
//
// The "name" of the mapped entries is the model's input or output alias. The model buffer is loaded
// from "model_asset" by a ModelProvider, and the pipeline must implement pipeline.AlgorithmRunner.
//
// Register it with the decoder using a graphjson.Mux:
//
//	h := runalgorithm.New(runalgorithm.StoreProvider(&blobs.LocalStore{Root: assetsDir}, ""))
//	mux := graphjson.NewMux().Handle(runalgorithm.OpType, h.HandleRecord)
package runalgorithm

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/tensorlist"
	"github.com/xrgraph/xrgraph/pkg/graphjson"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
	"k8s.io/klog/v2"
)

const (
	// OpType of the records handled.
	OpType = "run_algorithm"

	KeyModelName  = "model_name"
	KeyModelAsset = "model_asset"

	// DefaultModelName is used when the record has neither a "model_name" nor a "model_asset".
	DefaultModelName = "model"
)

// ModelProvider loads model buffers.
type ModelProvider interface {
	// Model returns the contents of the model asset.
	Model(ctx context.Context, asset string) ([]byte, error)
}

// ModelProviderFunc adapts a function to a ModelProvider.
type ModelProviderFunc func(ctx context.Context, asset string) ([]byte, error)

// Model implements ModelProvider.
func (fn ModelProviderFunc) Model(ctx context.Context, asset string) ([]byte, error) {
	return fn(ctx, asset)
}

// Handler of "run_algorithm" records.
type Handler struct {
	// Models loads the "model_asset" of the records. If nil, every record fails for lack of a model.
	Models ModelProvider
}

// New returns a Handler loading models with the given provider.
func New(models ModelProvider) *Handler {
	return &Handler{Models: models}
}

// HandleRecord implements graphjson.OperatorHandler. Records of other types are not handled.
func (h *Handler) HandleRecord(ctx context.Context, rec graphjson.Record, resolve graphjson.Resolver, p pipeline.Pipeline) (bool, error) {
	if rec.Type != OpType {
		return false, nil
	}
	asset, err := rec.Fields.StringOr(KeyModelAsset, "")
	if err != nil {
		return false, errors.WithMessagef(err, "%s %s malformed", OpType, KeyModelAsset)
	}
	model := pipeline.Model{}
	model.Name, err = rec.Fields.StringOr(KeyModelName, ModelNameFor(asset))
	if err != nil {
		return false, errors.WithMessagef(err, "%s %s malformed", OpType, KeyModelName)
	}
	model.Buffer, err = h.loadModel(ctx, asset)
	if err != nil {
		return false, err
	}

	inputs, err := bindings(rec.Field(graphjson.KeyInputs), resolve)
	if err != nil {
		return false, err
	}
	outputs, err := bindings(rec.Field(graphjson.KeyOutputs), resolve)
	if err != nil {
		return false, err
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return false, errors.Errorf("%s inputs/outputs malformed", OpType)
	}

	runner, ok := p.(pipeline.AlgorithmRunner)
	if !ok {
		return false, errors.Wrapf(pipeline.ErrNotImplemented, "%s: pipeline %T doesn't implement pipeline.AlgorithmRunner", OpType, p)
	}
	if err := runner.RunAlgorithm(model, inputs, outputs); err != nil {
		return false, err
	}
	klog.FromContext(ctx).V(1).Info("run_algorithm bound", "model", model.Name, "bytes", len(model.Buffer),
		"inputs", len(inputs), "outputs", len(outputs))
	return true, nil
}

func (h *Handler) loadModel(ctx context.Context, asset string) ([]byte, error) {
	if h.Models == nil || asset == "" {
		return nil, errors.Errorf("%s requires loaded model buffer", OpType)
	}
	buf, err := h.Models.Model(ctx, asset)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s requires loaded model buffer, failed to load %q", OpType, asset)
	}
	if len(buf) == 0 {
		return nil, errors.Errorf("%s requires loaded model buffer, %q is empty", OpType, asset)
	}
	return buf, nil
}

// bindings resolves a mapped list. Elements that can't be decoded are skipped, and for repeated
// aliases the first entry is used.
func bindings(raw json.RawMessage, resolve graphjson.Resolver) ([]pipeline.Binding, error) {
	mapping, err := tensorlist.DecodeMapped(raw, false)
	if err != nil {
		return nil, errors.Errorf("%s inputs/outputs malformed: %v", OpType, err)
	}
	result := make([]pipeline.Binding, 0, len(mapping))
	seen := make(map[string]bool, len(mapping))
	for _, entry := range mapping {
		if seen[entry.Alias] {
			klog.Warningf("%s: alias %q mapped more than once, using the first mapping", OpType, entry.Alias)
			continue
		}
		seen[entry.Alias] = true
		t, err := resolve(entry.Tensor)
		if err != nil {
			return nil, err
		}
		result = append(result, pipeline.Binding{Alias: entry.Alias, Tensor: t})
	}
	return result, nil
}

// ModelNameFor returns the default model name for the asset: its base name without extensions, e.g.:
// "models/mnist.serialized.bin" -> "mnist". It returns DefaultModelName if the asset is empty.
func ModelNameFor(asset string) string {
	if asset == "" {
		return DefaultModelName
	}
	base := path.Base(asset)
	if name, _, _ := strings.Cut(base, "."); name != "" {
		return name
	}
	return base
}

// Record returns a "run_algorithm" operator, to be added to a graphjson.Description.
// The modelName is optional.
func Record(modelName, modelAsset string, inputs, outputs []tensorlist.Mapped) graphjson.Custom {
	var fields jsonobj.Object
	if modelName != "" {
		_ = fields.Set(KeyModelName, modelName)
	}
	_ = fields.Set(KeyModelAsset, modelAsset)
	fields = append(fields,
		jsonobj.Member{Key: graphjson.KeyInputs, Value: tensorlist.EncodeMapped(inputs)},
		jsonobj.Member{Key: graphjson.KeyOutputs, Value: tensorlist.EncodeMapped(outputs)})
	return graphjson.NewCustom(OpType, fields)
}
