// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package blobs reads and writes whole byte blobs (pipeline documents, model buffers) by key, from
// the local file system or from Google Cloud Storage.
package blobs

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// GCSScheme is the prefix of Google Cloud Storage paths, e.g.: "gs://bucket/models/mnist.bin".
const GCSScheme = "gs://"

// Store of blobs.
type Store interface {
	// Read returns the contents of the blob. If no such blob exists, Read returns an error for
	// which errors.Is(err, os.ErrNotExist) is true.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the contents of the blob, creating it if needed.
	Write(ctx context.Context, key string, data []byte) error
}

// ForPath returns the Store serving path and the key of path within it.
//
// Paths starting with "gs://" are served by a GCSStore for the bucket, with the object name as the key.
// Any other path is served by a LocalStore rooted at the current directory, with path as the key.
func ForPath(path string) (store Store, key string, err error) {
	if path == "" {
		return nil, "", errors.New("empty path")
	}
	if !strings.HasPrefix(path, GCSScheme) {
		return &LocalStore{}, path, nil
	}
	bucket, object, _ := strings.Cut(strings.TrimPrefix(path, GCSScheme), "/")
	if bucket == "" || object == "" {
		return nil, "", errors.Errorf("invalid GCS path %q, it must be of the form gs://<bucket>/<object>", path)
	}
	return &GCSStore{Bucket: bucket}, object, nil
}

// Read the blob at path, see ForPath.
func Read(ctx context.Context, path string) ([]byte, error) {
	store, key, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	return store.Read(ctx, key)
}

// Write the blob at path, see ForPath.
func Write(ctx context.Context, path string, data []byte) error {
	store, key, err := ForPath(path)
	if err != nil {
		return err
	}
	return store.Write(ctx, key, data)
}
