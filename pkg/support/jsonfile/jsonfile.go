// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package jsonfile loads and writes JSON documents from paths served by package blobs: local files,
// or "gs://" objects.
//
// Failures are logged and reported as a nil document (Load) or false (Write), for callers that only
// need to know whether the document is usable. Use package blobs directly to handle the errors.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/support/blobs"
	"k8s.io/klog/v2"
)

// Indent used by Write.
const Indent = "  "

// Load the JSON document at path. It returns nil (and logs the reason) if the path is empty, the file
// can't be read or its contents are not valid JSON.
func Load(ctx context.Context, path string) json.RawMessage {
	doc, err := LoadE(ctx, path)
	if err != nil {
		klog.Errorf("jsonfile.Load(%q): %+v", path, err)
		return nil
	}
	return doc
}

// LoadE is like Load, but returns the error.
func LoadE(ctx context.Context, path string) (json.RawMessage, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}
	data, err := blobs.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, errors.Errorf("contents of %q are not valid JSON", path)
	}
	return data, nil
}

// Write doc to path, pretty-printed with Indent and a trailing new line. It returns false (and logs
// the reason) if the path is empty, doc is not valid JSON or the file can't be written.
func Write(ctx context.Context, path string, doc json.RawMessage) bool {
	if err := WriteE(ctx, path, doc); err != nil {
		klog.Errorf("jsonfile.Write(%q): %+v", path, err)
		return false
	}
	return true
}

// WriteE is like Write, but returns the error.
func WriteE(ctx context.Context, path string, doc json.RawMessage) error {
	if path == "" {
		return errors.New("empty path")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", Indent); err != nil {
		return errors.Wrap(err, "invalid JSON document")
	}
	buf.WriteByte('\n')
	return blobs.Write(ctx, path, buf.Bytes())
}
