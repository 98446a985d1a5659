// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package tensorlist encodes and decodes the lists of tensor names used by operator records:
// plain lists, mapped lists that present tensors to a sub-system (e.g. a model) under an alias,
// and fixed-size arrays of floats.
//
// By default decoding is lenient: elements of unexpected shape are skipped and a value that is
// not an array decodes to an empty list. In strict mode those cases are errors wrapping ErrMalformed.
package tensorlist

import (
	"encoding/json"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/support/jsonobj"
)

// JSON keys of a mapped list entry. The tensor key is also accepted in plain lists.
const (
	KeyAlias  = "name"
	KeyTensor = "tensor"
)

// ErrMalformed is returned (wrapped) when a list can't be decoded.
var ErrMalformed = errors.New("malformed tensor list")

// Mapped associates a tensor in the graph with the name (alias) a sub-system knows it by.
type Mapped struct {
	Alias  string `json:"name"`
	Tensor string `json:"tensor"`
}

// EncodeList encodes names as a JSON array of strings.
func EncodeList(names []string) json.RawMessage {
	if names == nil {
		names = []string{}
	}
	return must.M1(json.Marshal(names))
}

// DecodeList decodes a list of tensor names. Each element is either a string or an object
// with a string "tensor" field.
//
// A nil (absent) raw value is always an empty list.
func DecodeList(raw json.RawMessage, strict bool) ([]string, error) {
	elements, err := elementsOf(raw, strict)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(elements))
	for ii, element := range elements {
		switch jsonobj.KindOf(element) {
		case jsonobj.KindString:
			var name string
			if err := json.Unmarshal(element, &name); err != nil {
				return nil, errors.Wrapf(ErrMalformed, "element #%d: %v", ii, err)
			}
			names = append(names, name)
			continue
		case jsonobj.KindObject:
			obj, err := jsonobj.Parse(element)
			if err == nil {
				if raw, found := obj.Get(KeyTensor); found && jsonobj.KindOf(raw) == jsonobj.KindString {
					name, _ := obj.StringOr(KeyTensor, "")
					names = append(names, name)
					continue
				}
			}
		}
		if strict {
			return nil, errors.Wrapf(ErrMalformed, "element #%d must be a tensor name or an object with a %q string, got %s",
				ii, KeyTensor, element)
		}
	}
	return names, nil
}

// EncodeMapped encodes a mapped list as a JSON array of {"name": alias, "tensor": tensor} objects.
func EncodeMapped(mapping []Mapped) json.RawMessage {
	if mapping == nil {
		mapping = []Mapped{}
	}
	return must.M1(json.Marshal(mapping))
}

// DecodeMapped decodes a mapped list. Each element is either a bare tensor name, whose alias is
// the name itself, or an object with "name" (alias) and "tensor" string fields.
//
// Entries with an empty tensor name are dropped, and an empty alias defaults to the tensor name.
// Order is preserved.
func DecodeMapped(raw json.RawMessage, strict bool) ([]Mapped, error) {
	elements, err := elementsOf(raw, strict)
	if err != nil {
		return nil, err
	}
	mapping := make([]Mapped, 0, len(elements))
	for ii, element := range elements {
		var entry Mapped
		switch jsonobj.KindOf(element) {
		case jsonobj.KindString:
			if err := json.Unmarshal(element, &entry.Tensor); err != nil {
				return nil, errors.Wrapf(ErrMalformed, "element #%d: %v", ii, err)
			}
			entry.Alias = entry.Tensor
		case jsonobj.KindObject:
			obj, err := jsonobj.Parse(element)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformed, "element #%d: %v", ii, err)
			}
			var aliasErr, tensorErr error
			entry.Alias, aliasErr = obj.StringOr(KeyAlias, "")
			entry.Tensor, tensorErr = obj.StringOr(KeyTensor, "")
			if strict {
				for _, err := range []error{aliasErr, tensorErr} {
					if err != nil {
						return nil, errors.Wrapf(ErrMalformed, "element #%d: %v", ii, err)
					}
				}
			}
		default:
			if strict {
				return nil, errors.Wrapf(ErrMalformed, "element #%d must be a tensor name or a {%q, %q} object, got %s",
					ii, KeyAlias, KeyTensor, element)
			}
		}
		if entry.Tensor == "" {
			continue
		}
		if entry.Alias == "" {
			entry.Alias = entry.Tensor
		}
		mapping = append(mapping, entry)
	}
	return mapping, nil
}

// Tensors returns the tensor names of a mapped list, in order.
func Tensors(mapping []Mapped) []string {
	names := make([]string, len(mapping))
	for ii, entry := range mapping {
		names[ii] = entry.Tensor
	}
	return names
}

func elementsOf(raw json.RawMessage, strict bool) ([]json.RawMessage, error) {
	if raw == nil || jsonobj.KindOf(raw) != jsonobj.KindArray {
		if strict && raw != nil {
			return nil, errors.Wrapf(ErrMalformed, "expected an array, got %s", jsonobj.KindOf(raw))
		}
		return nil, nil
	}
	elements, err := jsonobj.Array(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%v", err)
	}
	return elements, nil
}
